package models

import "time"

// Board is one whiteboard: a node tree plus the navigation state and
// metadata that surround it.
type Board struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Kind        BoardKind       `yaml:"kind" json:"kind"`
	Root        *WhiteboardNode `yaml:"root" json:"root"`
	Breadcrumbs []string        `yaml:"breadcrumbs,omitempty" json:"breadcrumbs,omitempty"`
	Created     time.Time       `yaml:"created" json:"created"`
	Updated     time.Time       `yaml:"updated" json:"updated"`
}

// BoardSummary is the index entry kept for each board in boards/index.yaml.
type BoardSummary struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Kind      BoardKind `yaml:"kind" json:"kind"`
	NodeCount int       `yaml:"node_count" json:"nodeCount"`
	Created   time.Time `yaml:"created" json:"created"`
	Updated   time.Time `yaml:"updated" json:"updated"`
}

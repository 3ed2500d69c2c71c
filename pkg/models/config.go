package models

// GlobalConfig holds system-wide settings read from .orgcanvasconfig via Viper.
type GlobalConfig struct {
	DefaultKind    BoardKind `yaml:"default_kind" mapstructure:"default_kind"`
	BoardIDPrefix  string    `yaml:"board_id_prefix" mapstructure:"board_id_prefix"`
	NodeIDPrefix   string    `yaml:"node_id_prefix" mapstructure:"node_id_prefix"`
	NodeIDPadWidth int       `yaml:"node_id_pad_width" mapstructure:"node_id_pad_width"`
	// GridX/GridY are the canvas offsets used to place a new child when the
	// insert command carries no explicit position.
	GridX float64 `yaml:"grid_x" mapstructure:"grid_x"`
	GridY float64 `yaml:"grid_y" mapstructure:"grid_y"`
}

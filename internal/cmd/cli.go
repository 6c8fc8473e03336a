package cmd

// LogFlags are the logging options shared by every command. They live on the
// root so config files can set them once for all commands.
type LogFlags struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" default:"info" enum:"trace,debug,info,warn,error" env:"RUNEC_LOG_LEVEL"`
	File  string `help:"Write logs to this file in addition to the console" env:"RUNEC_LOG_FILE"`
}

// CLI is the root command structure parsed by Kong.
type CLI struct {
	Log    LogFlags `embed:"" prefix:"log."`
	Silent bool     `help:"Only report errors" short:"s"`
	Config string   `help:"Path to a configuration file" placeholder:"FILE"`

	Compile   Compile       `cmd:"" help:"Generate C type declarations and parsing metadata from a schema directory"`
	Dump      Dump          `cmd:"" help:"Print resolved message layout and sizing as JSON"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Manage configuration files"`
}

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/cgen"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// GenerateFlags are the options shared by every command that resolves message
// layout. They map one-to-one onto target.Config.
type GenerateFlags struct {
	CStandard    string `help:"C standard to generate for (c89/c90, c95, c99, c11, c17, c23)" default:"c23" short:"c" env:"RUNEC_C_STANDARD"`
	Architecture string `help:"Target architecture word size (32 or 64)" default:"64" short:"a" env:"RUNEC_ARCHITECTURE"`
	PackData     bool   `help:"Generate packed message structs without alignment padding" short:"p"`
	PackMetadata bool   `help:"Use the smallest sufficient integer types for descriptor metadata" short:"m"`
	DataSection  string `help:"Place the parser array in a named linker section" short:"d" placeholder:"NAME"`
	Unsorted     bool   `help:"Keep declaration order instead of sorting members by alignment" short:"u"`
}

// TargetConfig validates the flag values and folds them into a generation
// config.
func (f *GenerateFlags) TargetConfig() (target.Config, error) {
	std, err := target.ParseStandard(f.CStandard)
	if err != nil {
		return target.Config{}, err
	}
	arch, err := target.ParseArchitecture(f.Architecture)
	if err != nil {
		return target.Config{}, err
	}
	return target.Config{
		Architecture: arch,
		Standard:     std,
		PackData:     f.PackData,
		PackMetadata: f.PackMetadata,
		Section:      f.DataSection,
		Sort:         !f.Unsorted,
	}, nil
}

type Compile struct {
	GenerateFlags `embed:""`

	InputDir  string `help:"Directory containing .rune.json / .rune.yaml schema documents" short:"i" required:"" type:"existingdir" env:"RUNEC_INPUT_DIR"`
	OutputDir string `help:"Directory the generated C files are written to" short:"o" default:"./generated" env:"RUNEC_OUTPUT_DIR"`
}

// Run is called by Kong when the compile command is executed.
func (c *Compile) Run(logger *slog.Logger) error {
	cfg, err := c.TargetConfig()
	if err != nil {
		return err
	}

	files, err := schema.LoadDir(c.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no schema documents found under %s", comperr.ErrInvalidArgument, c.InputDir)
	}

	return cgen.New(c.OutputDir, cfg, logger).Generate(files)
}

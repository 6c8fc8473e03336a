package cmd

import (
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/cgen"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/layout"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// Dump resolves a schema directory and reports the computed layout without
// generating any C: global sizing plus every message's size and member
// offsets in emission order.
type Dump struct {
	GenerateFlags `embed:""`

	InputDir string `help:"Directory containing .rune.json / .rune.yaml schema documents" short:"i" required:"" type:"existingdir" env:"RUNEC_INPUT_DIR"`
	Output   string `help:"Write the report to a file instead of stdout" short:"o" placeholder:"FILE"`
}

type layoutReport struct {
	Runec        string       `json:"runec"`
	Standard     string       `json:"standard"`
	Architecture string       `json:"architecture"`
	Sizing       sizingReport `json:"sizing"`
	Files        []fileReport `json:"files"`
}

type sizingReport struct {
	ParserIndexWidth  uint64 `json:"parserIndexWidth"`
	MessageSizeWidth  uint64 `json:"messageSizeWidth"`
	FieldSizeWidth    uint64 `json:"fieldSizeWidth"`
	FieldOffsetWidth  uint64 `json:"fieldOffsetWidth"`
	LargestFieldIndex uint64 `json:"largestFieldIndex"`
	MessageCount      int    `json:"messageCount"`
}

type fileReport struct {
	Name     string         `json:"name"`
	Path     string         `json:"path,omitempty"`
	Messages []structReport `json:"messages"`
}

type structReport struct {
	Name    string         `json:"name"`
	Size    uint64         `json:"size"`
	Members []memberReport `json:"members"`
}

type memberReport struct {
	Name         string `json:"name"`
	Index        uint64 `json:"index"`
	Verification bool   `json:"verification,omitempty"`
	Offset       uint64 `json:"offset"`
	Size         uint64 `json:"size"`
}

// Run is called by Kong when the dump command is executed.
func (d *Dump) Run(logger *slog.Logger) error {
	cfg, err := d.TargetConfig()
	if err != nil {
		return err
	}

	files, err := schema.LoadDir(d.InputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no schema documents found under %s", comperr.ErrInvalidArgument, d.InputDir)
	}

	version, err := common.GetVersion()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	sizing, err := cgen.ComputeSizing(files, cfg, logger)
	if err != nil {
		return err
	}

	report := layoutReport{
		Runec:        version,
		Standard:     cfg.Standard.String(),
		Architecture: cfg.Architecture.String(),
		Sizing: sizingReport{
			ParserIndexWidth:  sizing.ParserIndexWidth,
			MessageSizeWidth:  sizing.MessageSizeWidth,
			FieldSizeWidth:    sizing.FieldSizeWidth,
			FieldOffsetWidth:  sizing.FieldOffsetWidth,
			LargestFieldIndex: sizing.LargestFieldIndex,
			MessageCount:      sizing.StructCount,
		},
	}

	for _, file := range files {
		fr := fileReport{Name: file.Name, Path: file.RelativePath}
		for _, def := range file.Definitions.Structs {
			ordered, err := layout.Order(def, cfg, logger)
			if err != nil {
				return fmt.Errorf("file %s: %w", file.Name, err)
			}
			placements, total := layout.Place(ordered, cfg)

			sr := structReport{Name: def.Name, Size: total}
			for _, p := range placements {
				sr.Members = append(sr.Members, memberReport{
					Name:         p.Member.Identifier,
					Index:        p.Member.Index.Value(),
					Verification: p.Member.Index.IsVerifier(),
					Offset:       p.Offset,
					Size:         p.Size,
				})
			}
			fr.Messages = append(fr.Messages, sr)
		}
		report.Files = append(report.Files, fr)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if d.Output != "" {
		return os.WriteFile(d.Output, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

package cgen

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/layout"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// Generator renders a loaded schema as C sources under an output directory.
type Generator struct {
	outputDir string
	cfg       target.Config
	logger    *slog.Logger
}

func New(outputDir string, cfg target.Config, logger *slog.Logger) *Generator {
	return &Generator{
		outputDir: outputDir,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate runs the global sizing pass, then renders every schema file's
// header and source plus the shared definitions header and the parser
// source. All output is buffered and only flushed after every file rendered
// cleanly: downstream C compilation needs the full set to be internally
// consistent, so a failing schema must not leave partial output behind.
func (g *Generator) Generate(files []*schema.FileDescription) error {
	version, err := common.GetVersion()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	g.logger.Info("Generating C message definitions",
		"files", len(files),
		"standard", g.cfg.Standard,
		"architecture", g.cfg.Architecture)

	sizing, err := ComputeSizing(files, g.cfg, g.logger)
	if err != nil {
		return err
	}

	outputs := make([]*OutputFile, 0, len(files)*2+2)

	for _, file := range files {
		orders := make(structOrders, len(file.Structs))
		for _, def := range file.Structs {
			ordered, err := layout.Order(def, g.cfg, g.logger)
			if err != nil {
				return fmt.Errorf("file %s: %w", file.Name, err)
			}
			orders[def] = ordered
		}

		dir := filepath.Join(g.outputDir, filepath.FromSlash(file.RelativePath))

		header := NewOutputFile(dir, file.Name+".rune.h")
		if err := writeHeader(header, file, orders, g.cfg.Standard, version); err != nil {
			return fmt.Errorf("file %s: %w", file.Name, err)
		}

		source := NewOutputFile(dir, file.Name+".rune.c")
		if err := writeSource(source, file, orders, g.cfg.Standard, version); err != nil {
			return fmt.Errorf("file %s: %w", file.Name, err)
		}

		outputs = append(outputs, header, source)
	}

	definitions := NewOutputFile(g.outputDir, "runic_definitions.h")
	if err := writeDefinitions(definitions, files, g.cfg, sizing, version); err != nil {
		return err
	}
	outputs = append(outputs, definitions)

	parser := NewOutputFile(g.outputDir, "runic_parser.c")
	writeParser(parser, files, g.cfg.Standard, version)
	outputs = append(outputs, parser)

	for _, out := range outputs {
		if err := out.Flush(); err != nil {
			return err
		}
		g.logger.Debug("Wrote generated file", "path", out.Path())
	}

	g.logger.Info("Generation complete",
		"messages", sizing.StructCount,
		"outputs", len(outputs),
		"dir", g.outputDir)

	return nil
}

// writeBanner emits the comment banner every generated file starts with.
// Shared outputs pass an empty source name.
func writeBanner(out *OutputFile, version, source string) {
	out.AddLine("/**")
	if source != "" {
		out.Addf(" * Autogenerated by runec %s from %s.rune", version, source)
	} else {
		out.Addf(" * Autogenerated by runec %s", version)
	}
	out.AddLine(" * Do not edit manually!")
	out.AddLine(" */")
	out.AddNewline()
}

package cgen

import (
	"fmt"
	"log/slog"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/layout"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
)

// Sizing holds the run-wide integer width decisions shared by every generated
// descriptor. It is computed once, before any file is rendered, because each
// struct's metadata references these widths.
type Sizing struct {
	// ParserIndexWidth is the byte width of the type indexing the parser
	// table, sized by the total message count.
	ParserIndexWidth uint64

	// MessageSizeWidth is the byte width of the type holding a message's
	// size, sized by the largest estimated message.
	MessageSizeWidth uint64

	// FieldSizeWidth and FieldOffsetWidth equal MessageSizeWidth: no field
	// can be larger than, or sit past the end of, its message.
	FieldSizeWidth   uint64
	FieldOffsetWidth uint64

	// LargestFieldIndex is the highest field index declared anywhere.
	LargestFieldIndex uint64

	// StructCount is the total number of messages across all files.
	StructCount int
}

// ComputeSizing runs the global aggregation pass over every struct in every
// file. A schema whose largest message resolves to size zero cannot produce
// consistent metadata and fails with ErrConfiguration.
func ComputeSizing(files []*schema.FileDescription, cfg target.Config, logger *slog.Logger) (Sizing, error) {
	var (
		count        int
		largestSize  uint64
		largestIndex uint64
	)

	for _, file := range files {
		for _, def := range file.Structs {
			count++

			size, err := layout.Estimate(def, cfg, logger)
			if err != nil {
				return Sizing{}, fmt.Errorf("file %s: %w", file.Name, err)
			}
			if size > largestSize {
				largestSize = size
			}

			for _, m := range def.Members {
				if value := m.Index.Value(); value > largestIndex {
					largestIndex = value
				}
			}
		}
	}

	if largestSize == 0 {
		return Sizing{}, fmt.Errorf("%w: schema contains no sized messages", comperr.ErrConfiguration)
	}

	sizing := Sizing{
		ParserIndexWidth:  layout.WidthForValue(uint64(count)),
		MessageSizeWidth:  layout.WidthForValue(largestSize),
		FieldSizeWidth:    layout.WidthForValue(largestSize),
		FieldOffsetWidth:  layout.WidthForValue(largestSize),
		LargestFieldIndex: largestIndex,
		StructCount:       count,
	}

	logger.Debug("Computed global sizing",
		"messages", count,
		"largestMessageSize", largestSize,
		"largestFieldIndex", largestIndex,
		"messageSizeWidth", sizing.MessageSizeWidth,
		"parserIndexWidth", sizing.ParserIndexWidth)

	return sizing, nil
}

// typeForWidth maps a metadata byte width to the unsigned primitive rendered
// for it when metadata packing is enabled.
func typeForWidth(width uint64) (schema.Primitive, error) {
	switch width {
	case 1:
		return schema.U8, nil
	case 2:
		return schema.U16, nil
	case 4:
		return schema.U32, nil
	case 8:
		return schema.U64, nil
	default:
		return schema.U8, fmt.Errorf("%w: no unsigned type of width %d", comperr.ErrLogic, width)
	}
}

// maxForWidth returns the maximum value representable in an unsigned integer
// of the given byte width.
func maxForWidth(width uint64) uint64 {
	switch width {
	case 1:
		return 0xFF
	case 2:
		return 0xFFFF
	case 4:
		return 0xFFFFFFFF
	default:
		return 0xFFFFFFFFFFFFFFFF
	}
}

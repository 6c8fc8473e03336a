package cgen_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/cgen"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/comperr"
	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/target"
	"github.com/NicolasDandanell/rune-c-compiler/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func index(t *testing.T, value uint64) schema.FieldIndex {
	t.Helper()

	idx, err := schema.NumericIndex(value)
	require.NoError(t, err)
	return idx
}

func primMember(t *testing.T, name string, p schema.Primitive, idx uint64) schema.StructMember {
	t.Helper()

	return schema.StructMember{
		Identifier: name,
		Type:       schema.PrimitiveType(p),
		Index:      index(t, idx),
	}
}

// telemetryFixture builds one schema file exercising every declaration kind:
// defines, an enum, bitfields, a verified struct and a struct embedding all
// of them.
func telemetryFixture(t *testing.T) *schema.FileDescription {
	t.Helper()

	sampleCount := &schema.DefineDefinition{Name: "SAMPLE_COUNT"}
	samples := schema.UintLiteral(8)
	sampleCount.Value = &samples

	retryLimit := &schema.DefineDefinition{Name: "RETRY_LIMIT"}
	declared := schema.UintLiteral(3)
	redefined := schema.UintLiteral(5)
	retryLimit.Value = &declared
	retryLimit.Redefinition = &redefined

	engineState := &schema.EnumDefinition{
		Name:    "EngineState",
		Backing: schema.U8,
		Members: []schema.EnumMember{
			{Identifier: "Idle", Value: schema.UintLiteral(0)},
			{Identifier: "Running", Value: schema.UintLiteral(1)},
			{Identifier: "Fault", Value: schema.UintLiteral(2)},
		},
	}

	statusFlags := &schema.BitfieldDefinition{
		Name:    "StatusFlags",
		Backing: schema.U8,
		Members: []schema.BitfieldMember{
			{Identifier: "mode", Size: schema.BitSize{Bits: 2}, Index: 1},
			{Identifier: "ready", Size: schema.BitSize{Bits: 1}, Index: 0},
		},
	}

	trim := &schema.BitfieldDefinition{
		Name:    "Trim",
		Backing: schema.U8,
		Members: []schema.BitfieldMember{
			{Identifier: "offset", Size: schema.BitSize{Signed: true, Bits: 3}, Index: 0},
			{Identifier: "gain", Size: schema.BitSize{Bits: 4}, Index: 1},
		},
	}

	position := &schema.StructDefinition{
		Name: "Position",
		Members: []schema.StructMember{
			primMember(t, "x", schema.I32, 1),
			primMember(t, "y", schema.I32, 2),
			{
				Identifier: "crc",
				Type:       schema.PrimitiveType(schema.U32),
				Index:      schema.VerifierIndex(),
			},
		},
	}

	engine := &schema.StructDefinition{
		Name: "Engine",
		Members: []schema.StructMember{
			primMember(t, "rpm", schema.U32, 0),
			{
				Identifier: "position",
				Type:       schema.FieldType{Kind: schema.FieldUserDefined, Name: "Position"},
				Index:      index(t, 2),
				Link:       schema.LinkToStruct(position),
			},
			{
				Identifier: "samples",
				Type: schema.FieldType{
					Kind:  schema.FieldArray,
					Elem:  &schema.ArrayType{Prim: schema.U8},
					Count: &schema.ArraySize{Name: "SAMPLE_COUNT", Define: sampleCount},
				},
				Index: index(t, 3),
			},
			{
				Identifier: "state",
				Type:       schema.FieldType{Kind: schema.FieldUserDefined, Name: "EngineState"},
				Index:      index(t, 4),
				Link:       schema.LinkToEnum(engineState),
			},
			{
				Identifier: "flags",
				Type:       schema.FieldType{Kind: schema.FieldUserDefined, Name: "StatusFlags"},
				Index:      index(t, 5),
				Link:       schema.LinkToBitfield(statusFlags),
			},
		},
	}

	return &schema.FileDescription{
		Name: "telemetry",
		Definitions: schema.Definitions{
			Defines:   []*schema.DefineDefinition{sampleCount, retryLimit},
			Enums:     []*schema.EnumDefinition{engineState},
			Bitfields: []*schema.BitfieldDefinition{statusFlags, trim},
			Structs:   []*schema.StructDefinition{position, engine},
		},
	}
}

func generate(t *testing.T, cfg target.Config, files ...*schema.FileDescription) string {
	t.Helper()

	dir := t.TempDir()
	err := cgen.New(dir, cfg, discardLogger()).Generate(files)
	require.NoError(t, err)
	return dir
}

func readOutput(t *testing.T, path ...string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(path...))
	require.NoError(t, err)
	return string(data)
}

func sortedTestConfig(std target.Standard) target.Config {
	return target.Config{
		Architecture: target.Arch64,
		Standard:     std,
		Sort:         true,
	}
}

func TestGenerateHeader(t *testing.T) {
	dir := generate(t, sortedTestConfig(target.C23), telemetryFixture(t))
	header := readOutput(t, dir, "telemetry.rune.h")

	assert.Contains(t, header, " * Autogenerated by runec 0.0.1-dev from telemetry.rune\n")
	assert.Contains(t, header, " * Do not edit manually!\n")

	assert.Contains(t, header, "#ifndef TELEMETRY_RUNE_H\n#define TELEMETRY_RUNE_H\n")
	assert.Contains(t, header, "#ifdef __cplusplus\nextern \"C\" {\n#endif // __cplusplus\n")
	assert.True(t, strings.HasSuffix(header, "#endif // TELEMETRY_RUNE_H\n"))

	assert.Contains(t, header, "#include <stdbool.h>\n#include <stdint.h>\n")
	assert.Contains(t, header, "#include \"runic_definitions.h\"\n#include \"rune.h\"\n")

	assert.Contains(t, header, "#define SAMPLE_COUNT 8\n")
	assert.Contains(t, header, "#undef RETRY_LIMIT\n#define RETRY_LIMIT 5\n")

	assert.Contains(t, header, "typedef enum RUNIC_ENUM engine_state: uint8_t {\n")
	assert.Contains(t, header, "    IDLE    = 0,\n    RUNNING = 1,\n    FAULT   = 2\n} engine_state_t;\n")
	assert.Contains(t, header, "#define ENGINE_STATE_INIT IDLE\n")
	assert.NotContains(t, header, "FORCE_WIDTH")

	assert.Contains(t, header, "typedef struct RUNIC_BITFIELD status_flags {\n")
	assert.Contains(t, header, "#define STATUS_FLAGS_INIT 0\n")
	assert.Contains(t, header, "    int8_t  offset  : 3;\n    uint8_t gain    : 4;\n")
	assert.Contains(t, header, "#define TRIM_INIT 0\n")

	serialized := "typedef struct RUNIC_STRUCT position {\n" +
		"    int32_t x;\n" +
		"    int32_t y;\n" +
		"    uint32_t crc;\n" +
		"} position_t;\n"
	assert.Contains(t, header, serialized)

	serialized = "typedef struct RUNIC_STRUCT engine {\n" +
		"    uint8_t samples[SAMPLE_COUNT];\n" +
		"    uint32_t rpm;\n" +
		"    position_t position;\n" +
		"    engine_state_t state;\n" +
		"    status_flags_t flags;\n" +
		"} engine_t;\n"
	assert.Contains(t, header, serialized)

	assert.Contains(t, header, "#define POSITION_INIT (position_t) { \\\n")
	assert.Contains(t, header, "    .x   = 0,")
	assert.Contains(t, header, "    .crc = 0,")

	assert.Contains(t, header, "#define ENGINE_INIT (engine_t) {")
	assert.Contains(t, header, "    .samples  = { 0 },")
	assert.Contains(t, header, "    .rpm      = 0,")
	assert.Contains(t, header, "    .position = POSITION_INIT,")
	assert.Contains(t, header, "    .state    = ENGINE_STATE_INIT,")
	assert.Contains(t, header, "    .flags    = STATUS_FLAGS_INIT,")
	assert.Contains(t, header, "\\\n}\n")

	assert.Contains(t, header, "extern const rune_descriptor_t position_descriptor;\n")
	assert.Contains(t, header, "extern const rune_descriptor_t engine_descriptor;\n")
}

func TestGenerateBitfieldEndianLayouts(t *testing.T) {
	dir := generate(t, sortedTestConfig(target.C23), telemetryFixture(t))
	header := readOutput(t, dir, "telemetry.rune.h")

	disclaimer := "// Disclaimer ! Run rune_bitfield_tester() function to check whether bitfields are behaving as intended"
	assert.Contains(t, header, disclaimer)

	leStart := strings.Index(header, "#if defined __LITTLE_ENDIAN__")
	beStart := strings.Index(header, "#elif defined __BIG_ENDIAN__")
	beEnd := strings.Index(header, "#endif // __BYTE_ORDER__")
	require.True(t, leStart >= 0)
	require.True(t, beStart > leStart)
	require.True(t, beEnd > beStart)

	littleEndian := header[leStart:beStart]
	bigEndian := header[beStart:beEnd]

	// Little-endian fills from the low bits up: declared order, any padding
	// last. Big-endian mirrors it so both layouts share the wire format.
	serialized := "    uint8_t ready   : 1;\n" +
		"    uint8_t mode    : 2;\n" +
		"\n" +
		"    /** Padding to ensure proper alignment */\n" +
		"    uint8_t padding : 5;\n" +
		"} status_flags_t;\n"
	assert.Contains(t, littleEndian, serialized)

	serialized = "    /** Padding to ensure proper alignment */\n" +
		"    uint8_t padding : 5;\n" +
		"    uint8_t mode    : 2;\n" +
		"    uint8_t ready   : 1;\n" +
		"} status_flags_t;\n"
	assert.Contains(t, bigEndian, serialized)

	errorLine := "#error \"Only little and big endianness is supported by this Rune C implementation\""
	assert.Contains(t, header, errorLine)
}

func TestGenerateSource(t *testing.T) {
	dir := generate(t, sortedTestConfig(target.C23), telemetryFixture(t))
	source := readOutput(t, dir, "telemetry.rune.c")

	assert.Contains(t, source, "#include \"telemetry.rune.h\"\n")
	assert.Contains(t, source, "#include \"rune.h\"\n")

	assert.Contains(t, source, "const rune_descriptor_t RUNIC_PARSER position_descriptor = {\n")
	assert.Contains(t, source, "    .descriptor_flags         = 0b000,\n")
	assert.Contains(t, source, "    .field_descriptors        = NULL,\n")
	assert.Contains(t, source, "    .size                     = sizeof(position_t),\n")
	assert.Contains(t, source, "    .largest_field            = 2,\n")
	assert.Contains(t, source, "        .has_verification     = true,\n")

	// The verifier always sits in slot 0.
	serialized := "    /*  .crc: Verifier field - 0 */ {\n" +
		"            .offset = offsetof(position_t, crc),\n" +
		"            .size   = sizeof(uint32_t),\n" +
		"        },\n"
	assert.Contains(t, source, serialized)
	assert.Contains(t, source, "    /*  .x  : 1 */ {\n")
	assert.Contains(t, source, "    /*  .y  : 2 */ {\n")

	assert.Contains(t, source, "const rune_descriptor_t* engine_field_descriptors[1] = {\n    &position_descriptor\n};\n")
	assert.Contains(t, source, "const rune_descriptor_t RUNIC_PARSER engine_descriptor = {\n")
	assert.Contains(t, source, "    .descriptor_flags         = 0b000100,\n")
	assert.Contains(t, source, "    .field_descriptors        = &engine_field_descriptors,\n")
	assert.Contains(t, source, "    .size                     = sizeof(engine_t),\n")
	assert.Contains(t, source, "    .largest_field            = 5,\n")
	assert.Contains(t, source, "        .has_verification     = false,\n")

	// The undeclared index 1 renders as an empty slot the runtime skips.
	serialized = "    /*  (empty) : 1 */ {\n" +
		"            .offset = 0,\n" +
		"            .size   = 0,\n" +
		"        },\n"
	assert.Contains(t, source, serialized)

	assert.Contains(t, source, "    /*  .rpm     : 0 */ {\n")
	assert.Contains(t, source, "    /*  .position: 2 */ {\n")
	assert.Contains(t, source, "    /*  .samples : 3 */ {\n")
	assert.Contains(t, source, "    /*  .state   : 4 */ {\n")
	assert.Contains(t, source, "    /*  .flags   : 5 */ {\n")

	assert.Contains(t, source, "            .offset = offsetof(engine_t, position),\n")
	assert.Contains(t, source, "            .size   = sizeof(position_t),\n")
	assert.Contains(t, source, "            .size   = (sizeof(uint8_t) * SAMPLE_COUNT),\n")
	assert.Contains(t, source, "            .size   = sizeof(engine_state_t),\n")
	assert.Contains(t, source, "            .size   = sizeof(status_flags_t),\n")

	// Last slot closes without a comma.
	assert.Contains(t, source, "        } \n    }\n};\n")
}

func TestGenerateDefinitions(t *testing.T) {
	dir := generate(t, sortedTestConfig(target.C23), telemetryFixture(t))
	definitions := readOutput(t, dir, "runic_definitions.h")

	assert.Contains(t, definitions, " * Autogenerated by runec 0.0.1-dev\n")
	assert.Contains(t, definitions, "#ifndef RUNE_DEFINITIONS_H\n#define RUNE_DEFINITIONS_H\n")
	assert.True(t, strings.HasSuffix(definitions, "#endif // RUNIC_DEFINITIONS_H\n"))

	assert.Contains(t, definitions, "#define RUNE_FIELD_INDEX_BITS      0x1F\n")
	assert.Contains(t, definitions, "#define RUNE_NO_PARSER             0\n")
	assert.Contains(t, definitions, "#define RUNE_TRANSPORT_TYPE_BITS   0xE0\n")
	assert.Contains(t, definitions, "#define RUNE_VERIFICATION_FIELD    0x1F\n")

	assert.Contains(t, definitions, "#define RUNIC_BITFIELD __attribute__((packed))\n")
	assert.Contains(t, definitions, "#define RUNIC_ENUM     \n")
	assert.Contains(t, definitions, "#define RUNIC_PARSER   \n")
	assert.Contains(t, definitions, "#define RUNIC_STRUCT   \n")
	assert.Contains(t, definitions, "#define RUNIC_METADATA \n")

	assert.Contains(t, definitions, "#define RUNE_FIELD_SIZE_TYPE   size_t\n")
	assert.Contains(t, definitions, "#define RUNE_FIELD_OFFSET_TYPE size_t\n")
	assert.Contains(t, definitions, "#define RUNE_MESSAGE_SIZE_TYPE size_t\n")
	assert.Contains(t, definitions, "#define RUNE_PARSER_INDEX_TYPE size_t\n")

	// The verifier's reserved index is the highest declared anywhere.
	assert.Contains(t, definitions, "#define RUNE_LARGEST_FIELD_INDEX 31\n")

	assert.Contains(t, definitions, "#define RUNE_PARSER_COUNT 2\n")
	assert.Contains(t, definitions, "#define RUNE_ENGINE_PARSER_INDEX   1\n")
	assert.Contains(t, definitions, "#define RUNE_POSITION_PARSER_INDEX 2\n")
}

func TestGenerateParser(t *testing.T) {
	dir := generate(t, sortedTestConfig(target.C23), telemetryFixture(t))
	parser := readOutput(t, dir, "runic_parser.c")

	assert.Contains(t, parser, "#include \"rune.h\"\n#include \"runic_definitions.h\"\n")
	assert.Contains(t, parser, "extern const rune_descriptor_t engine_descriptor;\n")
	assert.Contains(t, parser, "extern const rune_descriptor_t position_descriptor;\n")

	serialized := "static const rune_descriptor_t* RUNIC_PARSER rune_parser_array[RUNE_PARSER_COUNT] = {\n" +
		"    &engine_descriptor,\n" +
		"    &position_descriptor\n" +
		"};\n"
	assert.Contains(t, parser, serialized)

	assert.Contains(t, parser, "/** Get the descriptor of a given message type from its index */\n")
	assert.Contains(t, parser, "inline const rune_descriptor_t* rune_get_parser(RUNE_PARSER_INDEX_TYPE index) {\n")
	assert.Contains(t, parser, "    return rune_parser_array[index - 1];\n")
}

func TestGeneratePositionalBelowC99(t *testing.T) {
	point := &schema.StructDefinition{
		Name: "Point",
		Members: []schema.StructMember{
			primMember(t, "x", schema.I32, 0),
			primMember(t, "y", schema.U8, 1),
		},
	}
	file := &schema.FileDescription{
		Name:        "point",
		Definitions: schema.Definitions{Structs: []*schema.StructDefinition{point}},
	}

	dir := generate(t, sortedTestConfig(target.C89), file)

	header := readOutput(t, dir, "point.rune.h")
	assert.NotContains(t, header, "<stdbool.h>")
	assert.NotContains(t, header, "<stdint.h>")

	serialized := "typedef struct RUNIC_STRUCT point {\n" +
		"    signed long x;\n" +
		"    unsigned char y;\n" +
		"} point_t;\n"
	assert.Contains(t, header, serialized)

	assert.Contains(t, header, "#define POINT_INIT {")
	assert.Contains(t, header, "    /* .x = */ 0,")
	assert.Contains(t, header, "    /* .y = */ 0,")

	source := readOutput(t, dir, "point.rune.c")
	assert.Contains(t, source, "    /* .descriptor_flags     = */ 0b00,\n")
	assert.Contains(t, source, "    /* .field_descriptors    = */ NULL,\n")
	assert.Contains(t, source, "    /* .size                 = */ sizeof(point_t),\n")
	assert.Contains(t, source, "    /* .largest_field        = */ 1,\n")
	assert.Contains(t, source, "    /*     .has_verification = */ 0,\n")
	assert.Contains(t, source, "    /*     .x: 0 */ {\n")
	assert.Contains(t, source, "    /*         .offset = */ offsetof(point_t, x),\n")
	assert.Contains(t, source, "    /*         .size   = */ sizeof(signed long),\n")
	assert.Contains(t, source, "    /*     .y: 1 */ {\n")

	parser := readOutput(t, dir, "runic_parser.c")
	assert.NotContains(t, parser, "inline")
	assert.Contains(t, parser, "\nconst rune_descriptor_t* rune_get_parser(RUNE_PARSER_INDEX_TYPE index) {\n")
}

func TestGenerateEnumWidthSentinel(t *testing.T) {
	powerMode := &schema.EnumDefinition{
		Name:    "PowerMode",
		Backing: schema.U16,
		Members: []schema.EnumMember{
			{Identifier: "On", Value: schema.UintLiteral(0)},
			{Identifier: "Off", Value: schema.UintLiteral(1)},
		},
	}
	errorCode := &schema.EnumDefinition{
		Name:    "ErrorCode",
		Backing: schema.U8,
		Members: []schema.EnumMember{
			{Identifier: "None", Value: schema.UintLiteral(0)},
			{Identifier: "Overflow", Value: schema.NumericLiteral{Kind: schema.LiteralUint, Uint: 0xFF, Base: 16}},
		},
	}
	parity := &schema.EnumDefinition{
		Name:    "Parity",
		Backing: schema.U8,
		Members: []schema.EnumMember{
			{Identifier: "Odd", Value: schema.UintLiteral(1)},
			{Identifier: "Even", Value: schema.UintLiteral(2)},
		},
	}
	dummy := &schema.StructDefinition{
		Name:    "Dummy",
		Members: []schema.StructMember{primMember(t, "b", schema.U8, 0)},
	}
	file := &schema.FileDescription{
		Name: "mode",
		Definitions: schema.Definitions{
			Enums:   []*schema.EnumDefinition{powerMode, errorCode, parity},
			Structs: []*schema.StructDefinition{dummy},
		},
	}

	dir := generate(t, sortedTestConfig(target.C89), file)
	header := readOutput(t, dir, "mode.rune.h")

	// No declared value needs both backing bytes, so the compiler must be
	// forced not to narrow the enum.
	assert.Contains(t, header, "typedef enum RUNIC_ENUM power_mode {\n")
	serialized := "    ON                     = 0,\n" +
		"    OFF                    = 1,\n" +
		"\n" +
		"    /** Forces the enum to be at least 16 bits wide */\n" +
		"    POWER_MODE_FORCE_WIDTH = 0xFFFF\n" +
		"} power_mode_t;\n"
	assert.Contains(t, header, serialized)
	assert.Contains(t, header, "#define POWER_MODE_INIT ON\n")

	// 0xFF already fills the u8 backing, so no sentinel is needed.
	assert.NotContains(t, header, "ERROR_CODE_FORCE_WIDTH")
	assert.Contains(t, header, "    NONE     = 0,\n    OVERFLOW = 0xFF\n} error_code_t;\n")

	// No zero-valued member leaves the INIT constant at plain zero.
	assert.Contains(t, header, "#define PARITY_INIT 0\n")
}

func TestGeneratePackedMetadata(t *testing.T) {
	big := &schema.StructDefinition{
		Name: "Big",
		Members: []schema.StructMember{
			{
				Identifier: "blob",
				Type: schema.FieldType{
					Kind:  schema.FieldArray,
					Elem:  &schema.ArrayType{Prim: schema.U8},
					Count: &schema.ArraySize{Count: 300},
				},
				Index: index(t, 0),
			},
		},
	}
	tiny := &schema.StructDefinition{
		Name:    "Tiny",
		Members: []schema.StructMember{primMember(t, "b", schema.U8, 0)},
	}
	file := &schema.FileDescription{
		Name:        "bulk",
		Definitions: schema.Definitions{Structs: []*schema.StructDefinition{big, tiny}},
	}

	cfg := target.Config{
		Architecture: target.Arch64,
		Standard:     target.C23,
		PackData:     true,
		PackMetadata: true,
		Section:      ".rune.data",
		Sort:         true,
	}

	dir := generate(t, cfg, file)
	definitions := readOutput(t, dir, "runic_definitions.h")

	assert.Contains(t, definitions, "#define RUNIC_PARSER   __attribute__((packed, section(\".rune.data\")))\n")
	assert.Contains(t, definitions, "#define RUNIC_STRUCT   __attribute__((packed))\n")
	assert.Contains(t, definitions, "#define RUNIC_METADATA __attribute__((packed))\n")

	// 300 bytes of payload push the size types past one byte while the two
	// parser slots still fit one.
	assert.Contains(t, definitions, "#define RUNE_FIELD_SIZE_TYPE   uint16_t\n")
	assert.Contains(t, definitions, "#define RUNE_FIELD_OFFSET_TYPE uint16_t\n")
	assert.Contains(t, definitions, "#define RUNE_MESSAGE_SIZE_TYPE uint16_t\n")
	assert.Contains(t, definitions, "#define RUNE_PARSER_INDEX_TYPE uint8_t\n")

	header := readOutput(t, dir, "bulk.rune.h")
	assert.Contains(t, header, "    uint8_t blob[300];\n")
}

func TestGenerateNestedOutputDirectories(t *testing.T) {
	position := &schema.StructDefinition{
		Name: "Position",
		Members: []schema.StructMember{
			primMember(t, "x", schema.I32, 0),
			primMember(t, "y", schema.I32, 1),
		},
	}
	telemetry := &schema.FileDescription{
		Name:        "telemetry",
		Definitions: schema.Definitions{Structs: []*schema.StructDefinition{position}},
	}

	engine := &schema.StructDefinition{
		Name: "Engine",
		Members: []schema.StructMember{
			{
				Identifier: "position",
				Type:       schema.FieldType{Kind: schema.FieldUserDefined, Name: "Position"},
				Index:      index(t, 0),
				Link:       schema.LinkToStruct(position),
			},
		},
	}
	nav := &schema.FileDescription{
		Name:         "engine",
		RelativePath: "nav",
		Definitions: schema.Definitions{
			Includes: []schema.IncludeDefinition{{File: "telemetry"}},
			Structs:  []*schema.StructDefinition{engine},
		},
	}

	dir := generate(t, sortedTestConfig(target.C23), telemetry, nav)

	require.FileExists(t, filepath.Join(dir, "telemetry.rune.h"))
	require.FileExists(t, filepath.Join(dir, "telemetry.rune.c"))
	require.FileExists(t, filepath.Join(dir, "nav", "engine.rune.h"))
	require.FileExists(t, filepath.Join(dir, "nav", "engine.rune.c"))
	require.FileExists(t, filepath.Join(dir, "runic_definitions.h"))
	require.FileExists(t, filepath.Join(dir, "runic_parser.c"))

	header := readOutput(t, dir, "nav", "engine.rune.h")
	assert.Contains(t, header, "#include \"telemetry.rune.h\"\n")

	// The shared outputs cover structs from every file.
	parser := readOutput(t, dir, "runic_parser.c")
	assert.Contains(t, parser, "    &engine_descriptor,\n    &position_descriptor\n")
}

func TestGenerateErrors(t *testing.T) {
	dummy := func(t *testing.T) *schema.StructDefinition {
		t.Helper()
		return &schema.StructDefinition{
			Name:    "Dummy",
			Members: []schema.StructMember{primMember(t, "b", schema.U8, 0)},
		}
	}

	type testCase struct {
		name        string
		standard    target.Standard
		file        func(t *testing.T) *schema.FileDescription
		expectedErr error
	}

	testCases := []testCase{
		{
			name:     "64-bit integer below C99",
			standard: target.C89,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				wide := &schema.StructDefinition{
					Name:    "Wide",
					Members: []schema.StructMember{primMember(t, "counter", schema.I64, 0)},
				}
				return &schema.FileDescription{
					Name:        "wide",
					Definitions: schema.Definitions{Structs: []*schema.StructDefinition{wide}},
				}
			},
			expectedErr: comperr.ErrStandardMismatch,
		},
		{
			name:     "bitfield overflowing its backing type",
			standard: target.C23,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				broken := &schema.BitfieldDefinition{
					Name:    "Broken",
					Backing: schema.U8,
					Members: []schema.BitfieldMember{
						{Identifier: "wide", Size: schema.BitSize{Bits: 9}, Index: 0},
					},
				}
				return &schema.FileDescription{
					Name: "broken",
					Definitions: schema.Definitions{
						Bitfields: []*schema.BitfieldDefinition{broken},
						Structs:   []*schema.StructDefinition{dummy(t)},
					},
				}
			},
			expectedErr: comperr.ErrMalformedSchema,
		},
		{
			name:     "bitfield with 128-bit backing type",
			standard: target.C23,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				huge := &schema.BitfieldDefinition{
					Name:    "Huge",
					Backing: schema.U128,
					Members: []schema.BitfieldMember{
						{Identifier: "bit", Size: schema.BitSize{Bits: 1}, Index: 0},
					},
				}
				return &schema.FileDescription{
					Name: "huge",
					Definitions: schema.Definitions{
						Bitfields: []*schema.BitfieldDefinition{huge},
						Structs:   []*schema.StructDefinition{dummy(t)},
					},
				}
			},
			expectedErr: comperr.ErrUnsupported,
		},
		{
			name:     "array of 128-bit integers",
			standard: target.C23,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				wide := &schema.StructDefinition{
					Name: "Wide",
					Members: []schema.StructMember{
						{
							Identifier: "hashes",
							Type: schema.FieldType{
								Kind:  schema.FieldArray,
								Elem:  &schema.ArrayType{Prim: schema.U128},
								Count: &schema.ArraySize{Count: 2},
							},
							Index: index(t, 0),
						},
					},
				}
				return &schema.FileDescription{
					Name:        "wide",
					Definitions: schema.Definitions{Structs: []*schema.StructDefinition{wide}},
				}
			},
			expectedErr: comperr.ErrUnsupported,
		},
		{
			name:     "schema without sized messages",
			standard: target.C23,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				limit := &schema.DefineDefinition{Name: "LIMIT"}
				value := schema.UintLiteral(4)
				limit.Value = &value
				return &schema.FileDescription{
					Name:        "empty",
					Definitions: schema.Definitions{Defines: []*schema.DefineDefinition{limit}},
				}
			},
			expectedErr: comperr.ErrConfiguration,
		},
		{
			name:     "unlinked member reference",
			standard: target.C23,
			file: func(t *testing.T) *schema.FileDescription {
				t.Helper()
				orphan := &schema.StructDefinition{
					Name: "Orphan",
					Members: []schema.StructMember{
						{
							Identifier: "ghost",
							Type:       schema.FieldType{Kind: schema.FieldUserDefined, Name: "Ghost"},
							Index:      index(t, 0),
						},
					},
				}
				return &schema.FileDescription{
					Name:        "orphan",
					Definitions: schema.Definitions{Structs: []*schema.StructDefinition{orphan}},
				}
			},
			expectedErr: comperr.ErrMalformedSchema,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			gen := cgen.New(dir, sortedTestConfig(tc.standard), discardLogger())

			err := gen.Generate([]*schema.FileDescription{tc.file(t)})
			assert.ErrorIs(t, err, tc.expectedErr)

			// A failing schema must not leave partial output behind.
			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}

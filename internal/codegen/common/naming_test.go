package common_test

import (
	"testing"

	"github.com/NicolasDandanell/rune-c-compiler/internal/codegen/common"
	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected string
	}

	testCases := []testCase{
		{name: "empty", input: "", expected: ""},
		{name: "pascal case", input: "DeviceInfo", expected: "device_info"},
		{name: "camel case", input: "someWord", expected: "some_word"},
		{name: "leading acronym", input: "XMLParser", expected: "xml_parser"},
		{name: "trailing acronym", input: "BusID", expected: "bus_id"},
		{name: "acronym then digit", input: "HTTPServer2", expected: "http_server2"},
		{name: "already snake", input: "already_snake", expected: "already_snake"},
		{name: "single word", input: "Position", expected: "position"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, common.ToSnakeCase(tc.input))
		})
	}
}

func TestToUpperSnakeCase(t *testing.T) {
	assert.Equal(t, "DEVICE_INFO", common.ToUpperSnakeCase("DeviceInfo"))
	assert.Equal(t, "XML_PARSER", common.ToUpperSnakeCase("XMLParser"))
	assert.Equal(t, "", common.ToUpperSnakeCase(""))
}

func TestGuardMacro(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected string
	}

	testCases := []testCase{
		{name: "plain", input: "telemetry", expected: "TELEMETRY"},
		{name: "underscore kept", input: "device_info", expected: "DEVICE_INFO"},
		{name: "punctuation replaced", input: "web-socket.v2", expected: "WEB_SOCKET_V2"},
		{name: "digits kept", input: "can2b", expected: "CAN2B"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, common.GuardMacro(tc.input))
		})
	}
}

func TestSpaces(t *testing.T) {
	assert.Equal(t, "", common.Spaces(0))
	assert.Equal(t, "", common.Spaces(-3))
	assert.Equal(t, "    ", common.Spaces(4))
}

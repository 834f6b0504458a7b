package questions

import (
	_ "embed"
)

//go:embed packs/general.yaml
var generalPackYAML []byte

// BuiltinPack returns the question pack compiled into the binary. It is
// used whenever no pack directory is configured or loading fails.
func BuiltinPack() (Pack, error) {
	return ParseYAML(generalPackYAML)
}

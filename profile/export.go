package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ralphymoto/volatility/vtypes"
)

// exportDocument is the top-level shape shared by the JSON and YAML exports.
type exportDocument struct {
	Types   map[string]*vtypes.StructLayout `json:"linux_types" yaml:"linux_types"`
	Globals map[string]vtypes.GlobalVar     `json:"linux_gvars" yaml:"linux_gvars"`
}

// WritePython renders the profile as the pair of Python dict literals the
// memory-forensics tooling consumes, linux_types and linux_gvars. Types are
// written in name order, members in offset order, and globals in address
// order.
func (p *Profile) WritePython(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "linux_types = {")
	for _, name := range sortedKeys(p.types) {
		layout := p.types[name]
		fmt.Fprintf(bw, "  '%s': [ %#x, {\n", name, layout.ByteSize)
		for _, m := range layout.MembersByOffset() {
			fmt.Fprintf(bw, "    '%s': [%#x, %s],\n", m.Name, m.Offset, m.Type)
		}
		fmt.Fprintln(bw, "}],")
	}
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "linux_gvars = {")
	for _, gv := range p.globalsByAddr() {
		// Not %#010x: that pads the digit run itself to ten, printing
		// 0x00c0419204 where the consumer wants 0xc0419204.
		fmt.Fprintf(bw, "  '%s': [0x%08x, %s],\n", gv.Name, gv.Address, gv.Type)
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// WriteJSON renders the profile as a JSON document keyed by linux_types and
// linux_gvars.
func (p *Profile) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportDocument{Types: p.types, Globals: p.globals})
}

// WriteYAML renders the profile as a YAML document keyed by linux_types and
// linux_gvars.
func (p *Profile) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(exportDocument{Types: p.types, Globals: p.globals}); err != nil {
		return err
	}
	return enc.Close()
}

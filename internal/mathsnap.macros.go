package internal

import "sort"

// ValidateMacroNames checks that every name is a single control sequence.
// Names are checked in sorted order so the reported name is stable.
func ValidateMacroNames(macros map[string]string) error {
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !isControlSequence(name) {
			return NewStructureError(ErrMsgInvalidMacroName+": "+name, Position{}, nil)
		}
	}
	return nil
}

// MacroTable returns macros keyed by bare command name (`RR` for `\RR`),
// the form the MathML engine expects. Bodies may use #1..#9 arguments.
// Nil is returned for an empty table.
func MacroTable(macros map[string]string) map[string]string {
	if len(macros) == 0 {
		return nil
	}
	table := make(map[string]string, len(macros))
	for name, body := range macros {
		if len(name) > 0 && name[0] == charBackslash {
			name = name[1:]
		}
		table[name] = body
	}
	return table
}

func isControlSequence(name string) bool {
	if len(name) < 2 || name[0] != charBackslash {
		return false
	}
	if len(name) == 2 {
		return true
	}
	for i := 1; i < len(name); i++ {
		if !isLetter(name[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

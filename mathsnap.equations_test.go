package mathsnap

import (
	"sort"
	"testing"

	"github.com/itsatony/go-mathsnap/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquations(t *testing.T) {
	eqs := Equations()
	require.Len(t, eqs, 10)
	assert.Equal(t, EquationQuadratic, eqs[0].Name)

	// Callers get a copy
	eqs[0].Source = "changed"
	assert.NotEqual(t, "changed", Equations()[0].Source)
}

func TestLookupEquation(t *testing.T) {
	eq, ok := LookupEquation(EquationEinstein)
	require.True(t, ok)
	assert.Equal(t, "E = mc^2", eq.Source)

	_, ok = LookupEquation("missing")
	assert.False(t, ok)
}

func TestEquationNames(t *testing.T) {
	names := EquationNames()
	assert.Len(t, names, 10)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, EquationSchrodinger)
}

func TestEquations_WellFormed(t *testing.T) {
	for _, eq := range Equations() {
		t.Run(eq.Name, func(t *testing.T) {
			assert.NoError(t, internal.CheckStructure(eq.Source))
		})
	}
}

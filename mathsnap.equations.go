package mathsnap

import "sort"

// Predefined equation names
const (
	EquationQuadratic          = "quadratic"
	EquationEinstein           = "einstein"
	EquationPythagorean        = "pythagorean"
	EquationEuler              = "euler"
	EquationCircleArea         = "circleArea"
	EquationNormalDistribution = "normalDistribution"
	EquationDerivative         = "derivative"
	EquationIntegral           = "integral"
	EquationMaxwellDivergenceE = "maxwellDivergenceE"
	EquationSchrodinger        = "schrodinger"
)

// Equation is a named, documented piece of math source.
type Equation struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Source      string `json:"equation" yaml:"equation"`
}

var equationCatalog = []Equation{
	{EquationQuadratic, "Quadratic formula", `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`},
	{EquationEinstein, "Einstein's mass-energy equivalence", `E = mc^2`},
	{EquationPythagorean, "Pythagorean theorem", `a^2 + b^2 = c^2`},
	{EquationEuler, "Euler's identity", `e^{i\pi} + 1 = 0`},
	{EquationCircleArea, "Area of a circle", `A = \pi r^2`},
	{EquationNormalDistribution, "Normal distribution", `f(x) = \frac{1}{\sigma\sqrt{2\pi}} e^{-\frac{1}{2}\left(\frac{x-\mu}{\sigma}\right)^2}`},
	{EquationDerivative, "Derivative definition", `\frac{df}{dx} = \lim_{h \to 0} \frac{f(x+h) - f(x)}{h}`},
	{EquationIntegral, "Integral definition", `\int_{a}^{b} f(x) \, dx = F(b) - F(a)`},
	{EquationMaxwellDivergenceE, "Maxwell's equations (divergence of E)", `\nabla \cdot \vec{E} = \frac{\rho}{\varepsilon_0}`},
	{EquationSchrodinger, "Schrödinger equation", `i\hbar\frac{\partial}{\partial t}\Psi(\vec{r},t) = \hat{H}\Psi(\vec{r},t)`},
}

// Equations returns the predefined equations in catalog order.
func Equations() []Equation {
	out := make([]Equation, len(equationCatalog))
	copy(out, equationCatalog)
	return out
}

// LookupEquation returns the predefined equation with the given name.
func LookupEquation(name string) (Equation, bool) {
	for _, eq := range equationCatalog {
		if eq.Name == name {
			return eq, true
		}
	}
	return Equation{}, false
}

// EquationNames returns the predefined equation names in sorted order.
func EquationNames() []string {
	names := make([]string, 0, len(equationCatalog))
	for _, eq := range equationCatalog {
		names = append(names, eq.Name)
	}
	sort.Strings(names)
	return names
}

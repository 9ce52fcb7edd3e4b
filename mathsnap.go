// Package mathsnap renders LaTeX math to HTML fragments and never fails the
// caller: a malformed equation becomes a styled inline error fragment.
//
// Typesetting is delegated to a Typesetter. Two are provided: a pure Go
// MathML typesetter (goldmark + treeblood) and a KaTeX typesetter that runs a
// KaTeX bundle inside an embedded JavaScript runtime.
//
// # Basic Usage
//
//	renderer := mathsnap.MustNew()
//	result := renderer.Render(mathsnap.RenderRequest{
//	    Source:      `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`,
//	    DisplayMode: true,
//	})
//	if result.Error.HasError {
//	    // result.HTML holds the error fragment, result.Error.Message the reason
//	}
//
// Package level Render, IsValid and Sanitize use a shared default renderer.
//
// # Engine Options
//
// EngineOptions is a typed set of optional engine settings. Caller options are
// merged field by field over the renderer defaults; display mode, error
// throwing and output format are always re-asserted by the renderer:
//
//	result := renderer.Render(mathsnap.RenderRequest{
//	    Source:  `x \in \RR`,
//	    Options: &mathsnap.EngineOptions{Macros: map[string]string{`\RR`: `\mathbb{R}`}},
//	})
//
// # Error Handling
//
// Render reports failure through RenderResult.Error and the optional
// RenderRequest.OnError callback, which receives the underlying error once
// and before Render returns. MessageOf extracts the engine message from it.
//
// # Presentation
//
// Binding re-renders an equation when its Props change, FuncMap exposes
// renderers to html/template, and NewHandler serves rendering over HTTP.
//
// # Storage and Batches
//
// Named equations live in an EquationStore opened through a driver registry
// ("memory", "filesystem", "postgres"). RenderBatch renders many requests
// with bounded concurrency, and CachedRenderer memoizes successful renders.
//
// # Configuration
//
// Customize the renderer with functional options:
//
//	renderer, _ := mathsnap.New(
//	    mathsnap.WithTypesetter(katex),
//	    mathsnap.WithErrorColor("#cc0000"),
//	    mathsnap.WithLogger(logger),
//	)
//
// or load them from YAML with LoadConfig and Config.RendererOptions.
package mathsnap

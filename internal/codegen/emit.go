package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"text/template"

	"go.uber.org/zap"
)

// bindingsTemplate expands one declaration into a complete Go source
// file. Output goes through go/format, so layout here only needs to be
// syntactically valid.
var bindingsTemplate = template.Must(template.New("bindings").Parse(`// Code generated by loomgen. DO NOT EDIT.

package {{.Package}}

import (
	"iter"

	"{{.LoomImport}}"
)
{{range $c := .Contexts}}
// build{{$c.Name}}Schema declares the {{$c.Name}} context and its member tables.
func build{{$c.Name}}Schema() *loom.Schema {
	b := loom.NewSchema({{printf "%q" $c.Name}})
{{- range $m := $c.Members}}
	loom.Member[{{$m}}](b)
{{- end}}
	return b.MustBuild()
}

// {{$c.Name}}Schema is the frozen schema shared by all {{$c.Name}} instances.
var {{$c.Name}}Schema = build{{$c.Name}}Schema()

// {{$c.Name}} owns one table per declared member type and resolves
// proxies for values stored in them.
type {{$c.Name}} struct {
	ctx *loom.Context
}

// New{{$c.Name}} creates a {{$c.Name}} with every table empty.
func New{{$c.Name}}() *{{$c.Name}} {
	return &{{$c.Name}}{ctx: loom.NewContext({{$c.Name}}Schema)}
}

// Context exposes the underlying loom context, for wrapping in a
// capability such as loom.NewLocked or loom.NewCloneReplace.
func (c *{{$c.Name}}) Context() *loom.Context {
	return c.ctx
}
{{range $m := $c.Members}}
// Add{{$m}} stores value and returns a proxy for it.
func (c *{{$c.Name}}) Add{{$m}}(value {{$m}}) loom.Proxy[{{$m}}] {
	return loom.Add(c.ctx, value)
}

// Get{{$m}} resolves a proxy issued by this context. Proxies this
// context did not issue are a contract violation and panic.
func (c *{{$c.Name}}) Get{{$m}}(p loom.Proxy[{{$m}}]) {{$m}} {
	return loom.Get(c.ctx, p)
}

// Lookup{{$m}} is the recoverable form of Get{{$m}}.
func (c *{{$c.Name}}) Lookup{{$m}}(p loom.Proxy[{{$m}}]) ({{$m}}, bool) {
	return loom.Lookup(c.ctx, p)
}

// Get{{$m}}Mut resolves a proxy to a pointer for in-place mutation.
func (c *{{$c.Name}}) Get{{$m}}Mut(p loom.Proxy[{{$m}}]) *{{$m}} {
	return loom.GetMut(c.ctx, p)
}

// {{$m}}Values yields stored {{$m}} values in insertion order.
func (c *{{$c.Name}}) {{$m}}Values() iter.Seq[{{$m}}] {
	return loom.Values[{{$m}}](c.ctx)
}

// {{$m}}Proxies yields proxies for stored {{$m}} values in insertion order.
func (c *{{$c.Name}}) {{$m}}Proxies() iter.Seq[loom.Proxy[{{$m}}]] {
	return loom.Proxies[{{$m}}](c.ctx)
}
{{end}}{{end}}
{{- range $r := .Routines}}
// {{$r.Name}}Requires lists every member type {{$r.Name}} resolves,
// directly or transitively, as declared.
var {{$r.Name}}Requires = []string{
{{- range $r.Access}}
	{{printf "%q" .}},
{{- end}}
}

// Check{{$r.Name}}Access reports whether a grants access to every type
// {{$r.Name}} needs.
func Check{{$r.Name}}Access(a loom.Accessor) error {
	return loom.RequireMembers(a, {{$r.Name}}Requires...)
}
{{end}}`))

// Emit renders the declaration to formatted Go source. The declaration
// must already be validated; Emit reports template or formatting
// failures only.
func Emit(d *Decl) ([]byte, error) {
	var buf bytes.Buffer
	if err := bindingsTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering bindings: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

// Generate validates the declaration and renders it to Go source.
func Generate(d *Decl) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return Emit(d)
}

// GenerateFile loads a declaration file, generates bindings, and
// writes them to outPath.
func GenerateFile(declPath, outPath string) error {
	d, err := LoadDecl(declPath)
	if err != nil {
		return err
	}
	src, err := Generate(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	Logger().Info("generated bindings",
		zap.String("decl", declPath),
		zap.String("out", outPath),
		zap.Int("contexts", len(d.Contexts)),
		zap.Int("routines", len(d.Routines)),
		zap.Int("bytes", len(src)))
	return nil
}

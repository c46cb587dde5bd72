package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"slices"
	"text/template"

	"docmapper/internal/analyze"
)

// DefaultFilename is the name of the generated file in each package.
const DefaultFilename = "entities_gen.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the name of the generated file.
	Filename string
	// OutputDir receives the generated files. Empty means the directory of
	// each contract package.
	OutputDir string
	// GenerateComments enables doc comments on the wrappers.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         DefaultFilename,
		GenerateComments: true,
	}
}

// Generator generates wrapper code from an analyzed type graph.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "entities_gen.go").
	Filename string
	// Dir is the directory of the package the file belongs to.
	Dir string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per loaded package declaring entity contracts,
// ordered by package path.
func (g *Generator) Generate(graph *analyze.TypeGraph) ([]GeneratedFile, error) {
	paths := make([]string, 0, len(graph.Packages))
	for path := range graph.Packages {
		if len(graph.Entities(path)) > 0 {
			paths = append(paths, path)
		}
	}

	slices.Sort(paths)

	files := make([]GeneratedFile, 0, len(paths))

	for _, path := range paths {
		file, err := g.GeneratePackage(graph, path)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", path, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// GeneratePackage generates the wrappers of the entity contracts of pkgPath.
func (g *Generator) GeneratePackage(graph *analyze.TypeGraph, pkgPath string) (*GeneratedFile, error) {
	pkg, ok := graph.Packages[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package %s not loaded", pkgPath)
	}

	contracts := graph.Entities(pkgPath)
	if len(contracts) == 0 {
		return nil, fmt.Errorf("package %s declares no entity contracts", pkgPath)
	}

	b := newBuilder(pkg)
	data := &templateData{
		PackageName:      pkg.Name,
		Entity:           b.entity,
		GenerateComments: g.config.GenerateComments,
	}

	order := registrationOrder(contracts)

	for _, i := range order {
		w, err := b.wrapper(contracts[i])
		if err != nil {
			return nil, err
		}

		data.Wrappers = append(data.Wrappers, w)
	}

	data.Imports = b.imports.List()

	var buf bytes.Buffer
	if err := wrapperTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	file := &GeneratedFile{Filename: g.config.Filename, Dir: g.dir(pkg)}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(file.Dir, file.Filename, buf.Bytes())

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	file.Content = formatted

	return file, nil
}

func (g *Generator) dir(pkg *analyze.PackageInfo) string {
	if g.config.OutputDir != "" {
		return g.config.OutputDir
	}

	return pkg.Dir
}

// registrationOrder registers referenced contracts first. Contracts
// referencing each other keep the name order.
func registrationOrder(contracts []*analyze.ContractInfo) []int {
	index := make(map[analyze.TypeID]int, len(contracts))
	for i, c := range contracts {
		index[c.ID] = i
	}

	order, err := topoSort(len(contracts), func(i int) []int {
		var deps []int

		for _, id := range references(contracts[i]) {
			if j, ok := index[id]; ok {
				deps = append(deps, j)
			}
		}

		slices.Sort(deps)

		return slices.Compact(deps)
	})
	if err == nil {
		return order
	}

	order = make([]int, len(contracts))
	for i := range order {
		order[i] = i
	}

	return order
}

var wrapperTemplate = template.Must(template.New("wrappers").Funcs(template.FuncMap{
	"indent": indent,
}).Parse(`// Code generated by docmapper gen. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})

{{if .GenerateComments}}// RegisterAll registers every wrapper of this package with f.
{{end}}func RegisterAll(f *{{.Entity}}.Factory) error {
	for _, register := range []func(*{{.Entity}}.Factory) error{
{{range .Wrappers}}		Register{{.Contract}},
{{end}}	} {
		if err := register(f); err != nil {
			return err
		}
	}

	return nil
}
{{range .Wrappers}}{{$w := .}}
{{if $.GenerateComments}}// {{.Type}} implements {{.Contract}} on top of the entity dispatcher.
{{end}}type {{.Type}} struct{ *{{$.Entity}}.Instance }

{{if $.GenerateComments}}// Register{{.Contract}} registers the {{.Contract}} wrapper with f.
{{end}}func Register{{.Contract}}(f *{{$.Entity}}.Factory) error {
	return {{$.Entity}}.Register(f, func(i *{{$.Entity}}.Instance) {{.Contract}} { return {{.Type}}{i} })
}
{{range .Methods}}
func (e {{$w.Type}}) {{.Name}}({{if .Param}}v {{.Param}}{{end}}){{if .Result}} {{.Result}}{{end}} {
{{indent .Body}}
}
{{end}}{{end}}`))

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0

// Command overlaygen is the static, compile-time counterpart of
// overlay.DeriveStruct: it scans a package's source for struct fields
// carrying an `sszproof` tag and emits a Go file of
// overlay.MustDeriveStatic declarations, so a build can skip the
// reflection walk at startup for types known ahead of time.
//
// It intentionally cannot emit overlays for struct fields whose element
// shape is itself a nested struct ("container"): DeriveStruct recurses
// using a live reflect.Type, but this command only ever sees source text,
// with no resolved type for the collection's element. Containers still
// have to go through DeriveStruct at runtime.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/format"
	"log"
	"os"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"
)

func main() {
	pkgPath := flag.String("pkg", ".", "package to scan for sszproof-tagged structs")
	outPath := flag.String("out", "overlays_gen.go", "output file path")
	outPkg := flag.String("out-pkg", "", "package name for the generated file (defaults to the scanned package's name)")
	flag.Parse()

	if err := run(*pkgPath, *outPath, *outPkg); err != nil {
		log.Fatalf("overlaygen: %v", err)
	}
}

type structDecl struct {
	typeName string
	fields   []fieldDecl
}

type fieldDecl struct {
	name string
	tag  string
}

func run(pkgPath, outPath, outPkgOverride string) error {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
	}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return fmt.Errorf("loading package: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("errors while loading package %s", pkgPath)
	}

	var decls []structDecl
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				ts, ok := n.(*ast.TypeSpec)
				if !ok {
					return true
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					return true
				}
				decl := extractStruct(ts.Name.Name, st)
				if len(decl.fields) > 0 {
					decls = append(decls, decl)
				}
				return true
			})
		}
	}

	outPkgName := outPkgOverride
	if outPkgName == "" && len(pkgs) > 0 {
		outPkgName = pkgs[0].Name
	}
	if outPkgName == "" {
		outPkgName = "main"
	}

	src := render(outPkgName, decls)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		// Emit the unformatted source anyway so the caller can inspect what
		// went wrong, rather than losing the generated content entirely.
		formatted = []byte(src)
	}
	return os.WriteFile(outPath, formatted, 0o644)
}

func extractStruct(name string, st *ast.StructType) structDecl {
	decl := structDecl{typeName: name}
	if st.Fields == nil {
		return decl
	}
	for _, f := range st.Fields.List {
		if f.Tag == nil || len(f.Names) == 0 {
			continue
		}
		raw, err := strconvUnquote(f.Tag.Value)
		if err != nil {
			continue
		}
		tag := reflect.StructTag(raw).Get("sszproof")
		if tag == "" || tag == "-" {
			continue
		}
		if strings.HasPrefix(tag, "container") {
			// Out of scope for static generation; left for DeriveStruct.
			continue
		}
		decl.fields = append(decl.fields, fieldDecl{name: f.Names[0].Name, tag: tag})
	}
	return decl
}

func strconvUnquote(raw string) (string, error) {
	// go/ast stores the tag literal including its surrounding backticks or
	// quotes verbatim; strip one layer to recover the tag text.
	if len(raw) >= 2 && raw[0] == '`' && raw[len(raw)-1] == '`' {
		return raw[1 : len(raw)-1], nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1], nil
	}
	return "", fmt.Errorf("unrecognized tag literal %q", raw)
}

func render(pkgName string, decls []structDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by overlaygen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	fmt.Fprintf(&b, "import \"github.com/pk910/sszproof/overlay\"\n\n")
	for _, d := range decls {
		fmt.Fprintf(&b, "var %sOverlay = overlay.MustDeriveStatic(%q, []overlay.StaticField{\n", d.typeName, d.typeName)
		for _, f := range d.fields {
			fmt.Fprintf(&b, "\t{Name: %q, Tag: %q},\n", f.name, f.tag)
		}
		fmt.Fprintf(&b, "})\n\n")
	}
	return b.String()
}

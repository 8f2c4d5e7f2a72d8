// Package kotlin converts Kotlin rule sources into the declaration model the
// configuration extractor consumes, using tree-sitter.
package kotlin

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// File is a parsed Kotlin source file.
type File struct {
	Path    string
	Package string
	Classes []*Class
}

// Class is a class or object declaration together with the members the
// extractor cares about.
type Class struct {
	Name       string
	Kind       string // "class" or "object"
	Doc        string
	StartLine  int
	EndLine    int
	Properties []*Property
	Companions []*Scope
}

// Parser parses Kotlin files. A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new Kotlin parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())
	return &Parser{parser: p}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// ParseFile reads and parses a Kotlin source file.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*File, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses Kotlin source. The syntax tree is converted into plain values
// and released before returning.
func (p *Parser) Parse(ctx context.Context, filePath string, source []byte) (*File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	file := &File{
		Path:    filePath,
		Package: extractPackageName(root, source),
		Classes: []*Class{},
	}

	walkTree(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_declaration":
			file.Classes = append(file.Classes, convertClass(n, source, "class"))
		case "object_declaration":
			file.Classes = append(file.Classes, convertClass(n, source, "object"))
		}
		return true
	})

	return file, nil
}

// extractPackageName extracts the package name from the package header.
func extractPackageName(root *sitter.Node, source []byte) string {
	header := findChildByType(root, "package_header")
	if header == nil {
		return ""
	}
	if id := findChildByType(header, "identifier"); id != nil {
		return nodeText(id, source)
	}
	return strings.TrimSpace(strings.TrimPrefix(nodeText(header, source), "package"))
}

func convertClass(node *sitter.Node, source []byte, kind string) *Class {
	class := &Class{
		Kind:      kind,
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}
	if nameNode := findChildByType(node, "type_identifier"); nameNode != nil {
		class.Name = nodeText(nameNode, source)
	}
	if doc := precedingComment(node); doc != nil {
		class.Doc = cleanKDoc(nodeText(doc, source))
	}

	body := findChildByType(node, "class_body")
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "property_declaration":
			class.Properties = append(class.Properties, convertProperty(member, source))
		case "companion_object":
			class.Companions = append(class.Companions, convertCompanion(member, source))
		}
	}
	return class
}

// precedingComment returns the comment directly above a declaration. The
// grammar attaches a comment that follows the file header to the trailing
// import or package node rather than to the declaration's own level.
func precedingComment(node *sitter.Node) *sitter.Node {
	prev := node.PrevNamedSibling()
	for prev != nil && !isComment(prev) {
		switch prev.Type() {
		case "import_list", "import_header", "package_header":
			count := int(prev.NamedChildCount())
			if count == 0 {
				return nil
			}
			prev = prev.NamedChild(count - 1)
		default:
			return nil
		}
	}
	return prev
}

func convertCompanion(node *sitter.Node, source []byte) *Scope {
	scope := &Scope{Name: "Companion"}
	if nameNode := findChildByType(node, "type_identifier"); nameNode != nil {
		scope.Name = nodeText(nameNode, source)
	}
	body := findChildByType(node, "class_body")
	for _, member := range namedChildren(body) {
		if member.Type() == "property_declaration" {
			scope.Properties = append(scope.Properties, convertProperty(member, source))
		}
	}
	return scope
}

func convertProperty(node *sitter.Node, source []byte) *Property {
	prop := &Property{line: int(node.StartPoint().Row) + 1}

	afterAssign := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "modifiers":
			prop.annotations = convertAnnotations(child, source)
		case "binding_pattern_kind":
			prop.mutable = nodeText(child, source) == "var"
		case "var":
			prop.mutable = true
		case "variable_declaration":
			if id := findChildByType(child, "simple_identifier"); id != nil {
				prop.name = nodeText(id, source)
			}
		case "property_delegate":
			if expr := firstExpression(child); expr != nil {
				prop.delegate = convertExpr(expr, source)
			}
		case "=":
			afterAssign = true
		default:
			if afterAssign && child.IsNamed() && !isComment(child) {
				prop.initializer = convertExpr(child, source)
				afterAssign = false
			}
		}
	}
	return prop
}

func convertAnnotations(modifiers *sitter.Node, source []byte) []*Annotation {
	var annotations []*Annotation
	for _, node := range findChildrenByType(modifiers, "annotation") {
		annotation := &Annotation{}
		if userType := findDescendantByType(node, "user_type"); userType != nil {
			ids := findChildrenByType(userType, "type_identifier")
			if len(ids) > 0 {
				annotation.Name = nodeText(ids[len(ids)-1], source)
			}
		}
		if args := findDescendantByType(node, "value_arguments"); args != nil {
			annotation.args = convertArguments(args, source)
		}
		annotations = append(annotations, annotation)
	}
	return annotations
}

func convertExpr(node *sitter.Node, source []byte) *Expr {
	switch node.Type() {
	case "parenthesized_expression":
		if inner := firstExpression(node); inner != nil {
			return convertExpr(inner, source)
		}
	case "call_expression":
		return &Expr{text: nodeText(node, source), call: convertCall(node, source)}
	case "infix_expression":
		parts := namedChildren(node)
		if len(parts) == 3 && nodeText(parts[1], source) == "to" {
			return &Expr{
				text:  nodeText(node, source),
				left:  convertExpr(parts[0], source),
				right: convertExpr(parts[2], source),
			}
		}
	}
	return &Expr{text: nodeText(node, source)}
}

func convertCall(node *sitter.Node, source []byte) *Call {
	call := &Call{}
	children := namedChildren(node)
	if len(children) == 0 {
		return call
	}
	call.callee = calleeName(nodeText(children[0], source))
	if suffix := findChildByType(node, "call_suffix"); suffix != nil {
		if args := findChildByType(suffix, "value_arguments"); args != nil {
			call.args = convertArguments(args, source)
		}
	}
	return call
}

// calleeName reduces `a.b.listOf` to `listOf`.
func calleeName(text string) string {
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

func convertArguments(node *sitter.Node, source []byte) []*Arg {
	var args []*Arg
	for _, argNode := range findChildrenByType(node, "value_argument") {
		arg := &Arg{}
		named := false
		for i := 0; i < int(argNode.ChildCount()); i++ {
			if child := argNode.Child(i); child != nil && child.Type() == "=" {
				named = true
			}
		}
		parts := namedChildren(argNode)
		var exprs []*sitter.Node
		for _, part := range parts {
			if part.Type() != "annotation" && !isComment(part) {
				exprs = append(exprs, part)
			}
		}
		if len(exprs) == 0 {
			continue
		}
		if named && len(exprs) > 1 {
			arg.name = nodeText(exprs[0], source)
		}
		arg.value = convertExpr(exprs[len(exprs)-1], source)
		args = append(args, arg)
	}
	return args
}

// firstExpression returns the first named, non-comment child.
func firstExpression(node *sitter.Node) *sitter.Node {
	for _, child := range namedChildren(node) {
		if !isComment(child) {
			return child
		}
	}
	return nil
}

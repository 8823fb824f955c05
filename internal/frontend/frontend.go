// Package frontend turns C# source into syntax trees.
//
// Parsing uses tree-sitter and therefore needs cgo; builds without cgo get a
// stub whose Parse returns ErrNoCGO.
package frontend

import (
	"path/filepath"
	"strings"

	"catchminer/internal/syntax"
)

// Language identifies a supported source language.
type Language string

const (
	LangCSharp Language = "csharp"
)

// LanguageFromPath returns the language of a source file by extension.
func LanguageFromPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs", ".csx":
		return LangCSharp, true
	}
	return "", false
}

// fieldNames are the grammar fields recorded on converted nodes.
var fieldNames = []string{
	"name", "type", "returns", "body", "parameters",
	"condition", "consequence", "alternative",
	"left", "right", "operand", "function", "arguments", "expression",
	"value", "initializer", "update", "designation",
}

var kindByType = map[string]syntax.Kind{
	"compilation_unit":                 syntax.KindCompilationUnit,
	"namespace_declaration":            syntax.KindNamespace,
	"file_scoped_namespace_declaration": syntax.KindNamespace,
	"using_directive":                  syntax.KindUsing,
	"class_declaration":                syntax.KindClass,
	"struct_declaration":               syntax.KindClass,
	"interface_declaration":            syntax.KindClass,
	"record_declaration":               syntax.KindClass,
	"record_struct_declaration":        syntax.KindClass,
	"method_declaration":               syntax.KindMethod,
	"constructor_declaration":          syntax.KindConstructor,
	"destructor_declaration":           syntax.KindOtherMember,
	"operator_declaration":             syntax.KindOtherMember,
	"conversion_operator_declaration":  syntax.KindOtherMember,
	"field_declaration":                syntax.KindField,
	"event_field_declaration":          syntax.KindField,
	"property_declaration":             syntax.KindProperty,
	"indexer_declaration":              syntax.KindProperty,
	"event_declaration":                syntax.KindProperty,
	"parameter_list":                   syntax.KindParameterList,
	"parameter":                        syntax.KindParameter,

	"block":                       syntax.KindBlock,
	"try_statement":               syntax.KindTry,
	"if_statement":                syntax.KindIf,
	"while_statement":             syntax.KindWhile,
	"do_statement":                syntax.KindDo,
	"for_statement":               syntax.KindFor,
	"foreach_statement":           syntax.KindForeach,
	"for_each_statement":          syntax.KindForeach,
	"switch_statement":            syntax.KindSwitch,
	"using_statement":             syntax.KindUsingStatement,
	"lock_statement":              syntax.KindLock,
	"return_statement":            syntax.KindReturn,
	"throw_statement":             syntax.KindThrow,
	"expression_statement":        syntax.KindExpressionStatement,
	"local_declaration_statement": syntax.KindLocalDeclaration,
	"local_function_statement":    syntax.KindLocalFunction,

	"catch_clause":         syntax.KindCatch,
	"catch_declaration":    syntax.KindCatchDeclaration,
	"catch_filter_clause":  syntax.KindCatchFilter,
	"finally_clause":       syntax.KindFinally,
	"variable_declaration": syntax.KindVariableDeclaration,
	"variable_declarator":  syntax.KindVariableDeclarator,
	"equals_value_clause":  syntax.KindEqualsValue,
	"argument_list":        syntax.KindArgumentList,
	"argument":             syntax.KindArgument,

	"invocation_expression":          syntax.KindInvocation,
	"member_access_expression":       syntax.KindMemberAccess,
	"member_binding_expression":      syntax.KindMemberAccess,
	"conditional_access_expression":  syntax.KindConditionalAccess,
	"identifier":                     syntax.KindIdentifier,
	"generic_name":                   syntax.KindGenericName,
	"qualified_name":                 syntax.KindQualifiedName,
	"predefined_type":                syntax.KindTypeName,
	"implicit_type":                  syntax.KindTypeName,
	"assignment_expression":          syntax.KindAssignment,
	"binary_expression":              syntax.KindBinary,
	"prefix_unary_expression":        syntax.KindPrefixUnary,
	"postfix_unary_expression":       syntax.KindPostfixUnary,
	"parenthesized_expression":       syntax.KindParenthesized,
	"conditional_expression":         syntax.KindConditional,
	"boolean_literal":                syntax.KindBooleanLiteral,
	"null_literal":                   syntax.KindNullLiteral,
	"object_creation_expression":     syntax.KindObjectCreation,
	"cast_expression":                syntax.KindCast,
	"await_expression":               syntax.KindAwait,
	"lambda_expression":              syntax.KindLambda,
	"anonymous_method_expression":    syntax.KindLambda,
	"this_expression":                syntax.KindThis,
	"this":                           syntax.KindThis,
	"base_expression":                syntax.KindBase,
	"base":                           syntax.KindBase,
	"throw_expression":               syntax.KindThrowExpression,
	"declaration_expression":         syntax.KindDeclarationExpression,
	"declaration_pattern":            syntax.KindDeclarationPattern,
	"comment":                        syntax.KindComment,
}

// kindOf maps a tree-sitter C# node type to a syntax kind.
func kindOf(nodeType string) syntax.Kind {
	if k, ok := kindByType[nodeType]; ok {
		return k
	}
	switch {
	case strings.HasSuffix(nodeType, "_statement"):
		return syntax.KindOtherStatement
	case strings.HasSuffix(nodeType, "_literal"):
		return syntax.KindLiteral
	case strings.HasSuffix(nodeType, "_type"):
		return syntax.KindTypeName
	case strings.HasSuffix(nodeType, "_expression"):
		return syntax.KindExpression
	case strings.HasSuffix(nodeType, "_declaration"):
		return syntax.KindOtherMember
	}
	return syntax.KindOther
}

// carriesOp reports whether the first operator token of a node of this kind
// is recorded in syntax.Node.Op.
func carriesOp(k syntax.Kind) bool {
	switch k {
	case syntax.KindAssignment, syntax.KindBinary, syntax.KindPrefixUnary,
		syntax.KindPostfixUnary, syntax.KindArgument:
		return true
	}
	return false
}

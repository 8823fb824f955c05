package syntax

// Kind classifies a Node independently of the grammar that produced it.
type Kind uint8

const (
	KindOther Kind = iota

	// Declarations
	KindCompilationUnit
	KindNamespace
	KindUsing
	KindClass
	KindMethod
	KindConstructor
	KindOtherMember
	KindField
	KindProperty
	KindParameterList
	KindParameter

	// Statements
	KindBlock
	KindTry
	KindIf
	KindWhile
	KindDo
	KindFor
	KindForeach
	KindSwitch
	KindUsingStatement
	KindLock
	KindReturn
	KindThrow
	KindExpressionStatement
	KindLocalDeclaration
	KindLocalFunction
	KindOtherStatement

	// Clauses
	KindCatch
	KindCatchDeclaration
	KindCatchFilter
	KindFinally
	KindVariableDeclaration
	KindVariableDeclarator
	KindEqualsValue
	KindArgumentList
	KindArgument

	// Expressions
	KindInvocation
	KindMemberAccess
	KindConditionalAccess
	KindIdentifier
	KindGenericName
	KindQualifiedName
	KindTypeName
	KindAssignment
	KindBinary
	KindPrefixUnary
	KindPostfixUnary
	KindParenthesized
	KindConditional
	KindBooleanLiteral
	KindNullLiteral
	KindLiteral
	KindObjectCreation
	KindCast
	KindAwait
	KindLambda
	KindThis
	KindBase
	KindThrowExpression
	KindDeclarationExpression
	KindDeclarationPattern
	KindExpression

	KindComment
)

var kindNames = map[Kind]string{
	KindOther:                 "other",
	KindCompilationUnit:       "compilation_unit",
	KindNamespace:             "namespace",
	KindUsing:                 "using",
	KindClass:                 "class",
	KindMethod:                "method",
	KindConstructor:           "constructor",
	KindOtherMember:           "other_member",
	KindField:                 "field",
	KindProperty:              "property",
	KindParameterList:         "parameter_list",
	KindParameter:             "parameter",
	KindBlock:                 "block",
	KindTry:                   "try",
	KindIf:                    "if",
	KindWhile:                 "while",
	KindDo:                    "do",
	KindFor:                   "for",
	KindForeach:               "foreach",
	KindSwitch:                "switch",
	KindUsingStatement:        "using_statement",
	KindLock:                  "lock",
	KindReturn:                "return",
	KindThrow:                 "throw",
	KindExpressionStatement:   "expression_statement",
	KindLocalDeclaration:      "local_declaration",
	KindLocalFunction:         "local_function",
	KindOtherStatement:        "other_statement",
	KindCatch:                 "catch",
	KindCatchDeclaration:      "catch_declaration",
	KindCatchFilter:           "catch_filter",
	KindFinally:               "finally",
	KindVariableDeclaration:   "variable_declaration",
	KindVariableDeclarator:    "variable_declarator",
	KindEqualsValue:           "equals_value",
	KindArgumentList:          "argument_list",
	KindArgument:              "argument",
	KindInvocation:            "invocation",
	KindMemberAccess:          "member_access",
	KindConditionalAccess:     "conditional_access",
	KindIdentifier:            "identifier",
	KindGenericName:           "generic_name",
	KindQualifiedName:         "qualified_name",
	KindTypeName:              "type",
	KindAssignment:            "assignment",
	KindBinary:                "binary",
	KindPrefixUnary:           "prefix_unary",
	KindPostfixUnary:          "postfix_unary",
	KindParenthesized:         "parenthesized",
	KindConditional:           "conditional",
	KindBooleanLiteral:        "boolean_literal",
	KindNullLiteral:           "null_literal",
	KindLiteral:               "literal",
	KindObjectCreation:        "object_creation",
	KindCast:                  "cast",
	KindAwait:                 "await",
	KindLambda:                "lambda",
	KindThis:                  "this",
	KindBase:                  "base",
	KindThrowExpression:       "throw_expression",
	KindDeclarationExpression: "declaration_expression",
	KindDeclarationPattern:    "declaration_pattern",
	KindExpression:            "expression",
	KindComment:               "comment",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsStatement reports whether nodes of this kind are statements.
func (k Kind) IsStatement() bool {
	return k >= KindBlock && k <= KindOtherStatement
}

// IsMember reports whether nodes of this kind are member declarations with a body.
func (k Kind) IsMember() bool {
	return k == KindMethod || k == KindConstructor || k == KindOtherMember
}

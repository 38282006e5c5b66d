package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RuleField identifies the invoice field a condition inspects.
type RuleField string

// Condition fields.
const (
	FieldSenderEmail RuleField = "sender_email"
	FieldSubject     RuleField = "subject"
	FieldVendorName  RuleField = "vendor_name"
	FieldTotalAmount RuleField = "total_amount"
)

// AllRuleFields lists the fields a condition may reference.
var AllRuleFields = []RuleField{FieldSenderEmail, FieldSubject, FieldVendorName, FieldTotalAmount}

// RuleOperator is the comparison applied between a field and a condition value.
type RuleOperator string

// Condition operators. String operators compare case-insensitively;
// gt/lt compare numerically.
const (
	OpContains   RuleOperator = "contains"
	OpEquals     RuleOperator = "equals"
	OpStartsWith RuleOperator = "starts_with"
	OpEndsWith   RuleOperator = "ends_with"
	OpGreater    RuleOperator = "gt"
	OpLess       RuleOperator = "lt"
)

// AllRuleOperators lists the operators a condition may use.
var AllRuleOperators = []RuleOperator{OpContains, OpEquals, OpStartsWith, OpEndsWith, OpGreater, OpLess}

// ActionKind identifies what a rule action does to a matching invoice.
type ActionKind string

// Rule action kinds. For ActionAddLabel the value is a comma-joined list of
// label names; for ActionSetStatus it is one of the status constants;
// ActionDeleteInvoice carries a placeholder value.
const (
	ActionSetStatus     ActionKind = "set_status"
	ActionAddLabel      ActionKind = "add_label"
	ActionDeleteInvoice ActionKind = "delete_invoice"
)

// RuleLogic combines a rule's conditions.
type RuleLogic string

// Condition combinators.
const (
	LogicAnd RuleLogic = "AND"
	LogicOr  RuleLogic = "OR"
)

// Condition is a single field/operator/value predicate.
type Condition struct {
	Field    RuleField    `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    string       `json:"value"`
}

// Action is a single effect applied to invoices matching a rule.
type Action struct {
	Kind  ActionKind `json:"action_type"`
	Value string     `json:"value"`
}

// Rule is a stored condition→action automation definition. Evaluation against
// incoming invoices happens server-side; Matches exists so the client can
// preview what a rule would do before saving it.
type Rule struct {
	ID         string      `json:"id,omitempty"`
	Name       string      `json:"name"`
	IsActive   bool        `json:"is_active"`
	Logic      RuleLogic   `json:"logic"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions"`
}

// Validate ensures the rule is well formed. The backend's acceptance of
// degenerate rules is not guaranteed, so empty condition or action lists are
// rejected here before any network call.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	if len(r.Conditions) == 0 {
		return fmt.Errorf("rule requires at least one condition")
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("rule requires at least one action")
	}
	if r.Logic != LogicAnd && r.Logic != LogicOr {
		return fmt.Errorf("invalid logic %q: must be AND or OR", r.Logic)
	}
	for _, c := range r.Conditions {
		if !validRuleField(c.Field) {
			return fmt.Errorf("invalid condition field: %q", c.Field)
		}
		if !validRuleOperator(c.Operator) {
			return fmt.Errorf("invalid condition operator: %q", c.Operator)
		}
		if (c.Operator == OpGreater || c.Operator == OpLess) && c.Field != FieldTotalAmount {
			return fmt.Errorf("operator %q requires a numeric field", c.Operator)
		}
	}
	for _, a := range r.Actions {
		switch a.Kind {
		case ActionSetStatus:
			if _, err := ParseStatus(a.Value); err != nil {
				return fmt.Errorf("invalid set_status value: %w", err)
			}
		case ActionAddLabel:
			if strings.TrimSpace(a.Value) == "" {
				return fmt.Errorf("add_label action requires a label name")
			}
		case ActionDeleteInvoice:
			// Value is a placeholder, nothing to check.
		default:
			return fmt.Errorf("invalid action type: %q", a.Kind)
		}
	}
	return nil
}

// Labels returns the label names an add_label action carries.
func (a Action) Labels() []string {
	var out []string
	for _, part := range strings.Split(a.Value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Matches reports whether the invoice satisfies the rule's conditions under
// its combinator. Inactive rules never match. The semantics mirror the
// server-side evaluator: string operators lowercase both sides, gt/lt parse
// both sides as numbers and fail the condition when either side does not.
func (r *Rule) Matches(inv Invoice) bool {
	if !r.IsActive {
		return false
	}
	if r.Logic == LogicOr {
		for _, c := range r.Conditions {
			if c.Matches(inv) {
				return true
			}
		}
		return false
	}
	for _, c := range r.Conditions {
		if !c.Matches(inv) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition against an invoice.
func (c Condition) Matches(inv Invoice) bool {
	raw := conditionFieldValue(c.Field, inv)

	switch c.Operator {
	case OpGreater, OpLess:
		fieldVal, err1 := strconv.ParseFloat(raw, 64)
		condVal, err2 := strconv.ParseFloat(c.Value, 64)
		if err1 != nil || err2 != nil {
			return false
		}
		if c.Operator == OpGreater {
			return fieldVal > condVal
		}
		return fieldVal < condVal
	}

	fieldVal := strings.ToLower(raw)
	condVal := strings.ToLower(c.Value)
	switch c.Operator {
	case OpContains:
		return strings.Contains(fieldVal, condVal)
	case OpEquals:
		return fieldVal == condVal
	case OpStartsWith:
		return strings.HasPrefix(fieldVal, condVal)
	case OpEndsWith:
		return strings.HasSuffix(fieldVal, condVal)
	default:
		return false
	}
}

func conditionFieldValue(field RuleField, inv Invoice) string {
	switch field {
	case FieldSenderEmail:
		return inv.SenderEmail
	case FieldSubject:
		return inv.Subject
	case FieldVendorName:
		return inv.VendorName
	case FieldTotalAmount:
		if inv.TotalAmount == nil {
			return ""
		}
		return strconv.FormatFloat(*inv.TotalAmount, 'f', -1, 64)
	default:
		return ""
	}
}

func validRuleField(f RuleField) bool {
	for _, known := range AllRuleFields {
		if f == known {
			return true
		}
	}
	return false
}

func validRuleOperator(op RuleOperator) bool {
	for _, known := range AllRuleOperators {
		if op == known {
			return true
		}
	}
	return false
}

package model

import (
	"strings"
	"testing"
)

func validTestRule() Rule {
	return Rule{
		ID:       "r1",
		Name:     "Flag big cloud bills",
		IsActive: true,
		Logic:    LogicAnd,
		Conditions: []Condition{
			{Field: FieldVendorName, Operator: OpContains, Value: "amazon"},
			{Field: FieldTotalAmount, Operator: OpGreater, Value: "100"},
		},
		Actions: []Action{
			{Kind: ActionAddLabel, Value: "cloud"},
			{Kind: ActionSetStatus, Value: "warning"},
		},
	}
}

func TestRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr string
	}{
		{
			name:   "valid rule",
			mutate: func(_ *Rule) {},
		},
		{
			name:    "empty name",
			mutate:  func(r *Rule) { r.Name = "   " },
			wantErr: "name is required",
		},
		{
			name:    "no conditions",
			mutate:  func(r *Rule) { r.Conditions = nil },
			wantErr: "at least one condition",
		},
		{
			name:    "no actions",
			mutate:  func(r *Rule) { r.Actions = []Action{} },
			wantErr: "at least one action",
		},
		{
			name:    "bad logic",
			mutate:  func(r *Rule) { r.Logic = "XOR" },
			wantErr: "invalid logic",
		},
		{
			name:    "unknown condition field",
			mutate:  func(r *Rule) { r.Conditions[0].Field = "color" },
			wantErr: "invalid condition field",
		},
		{
			name:    "unknown operator",
			mutate:  func(r *Rule) { r.Conditions[0].Operator = "matches_regex" },
			wantErr: "invalid condition operator",
		},
		{
			name:    "numeric operator on text field",
			mutate:  func(r *Rule) { r.Conditions[0].Operator = OpGreater },
			wantErr: "requires a numeric field",
		},
		{
			name:    "bad set_status value",
			mutate:  func(r *Rule) { r.Actions[1].Value = "done" },
			wantErr: "invalid set_status value",
		},
		{
			name:    "add_label without a label",
			mutate:  func(r *Rule) { r.Actions[0].Value = " " },
			wantErr: "requires a label name",
		},
		{
			name:    "unknown action kind",
			mutate:  func(r *Rule) { r.Actions[0].Kind = "archive" },
			wantErr: "invalid action type",
		},
		{
			name: "delete action needs no value",
			mutate: func(r *Rule) {
				r.Actions = []Action{{Kind: ActionDeleteInvoice, Value: ""}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validTestRule()
			tt.mutate(&rule)

			err := rule.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestRule_Matches(t *testing.T) {
	amount := 150.0
	invoice := Invoice{
		ID:          "inv-1",
		SenderEmail: "billing@aws.amazon.com",
		Subject:     "Your AWS statement",
		VendorName:  "Amazon Web Services",
		TotalAmount: &amount,
	}

	t.Run("AND requires every condition", func(t *testing.T) {
		rule := validTestRule()
		if !rule.Matches(invoice) {
			t.Fatal("rule should match: vendor contains amazon and total > 100")
		}

		rule.Conditions[1].Value = "200"
		if rule.Matches(invoice) {
			t.Fatal("rule should not match: total is not > 200")
		}
	})

	t.Run("OR requires any condition", func(t *testing.T) {
		rule := validTestRule()
		rule.Logic = LogicOr
		rule.Conditions[1].Value = "200"
		if !rule.Matches(invoice) {
			t.Fatal("OR rule should match on the vendor condition alone")
		}
	})

	t.Run("inactive rules never match", func(t *testing.T) {
		rule := validTestRule()
		rule.IsActive = false
		if rule.Matches(invoice) {
			t.Fatal("inactive rule matched")
		}
	})

	t.Run("string comparison ignores case", func(t *testing.T) {
		rule := validTestRule()
		rule.Conditions = []Condition{
			{Field: FieldSubject, Operator: OpStartsWith, Value: "YOUR aws"},
		}
		if !rule.Matches(invoice) {
			t.Fatal("starts_with should compare case-insensitively")
		}
	})

	t.Run("numeric comparison fails on missing amount", func(t *testing.T) {
		rule := validTestRule()
		rule.Conditions = []Condition{
			{Field: FieldTotalAmount, Operator: OpLess, Value: "1000"},
		}
		undated := Invoice{VendorName: "X", TotalAmount: nil}
		if rule.Matches(undated) {
			t.Fatal("gt/lt should fail the condition when the amount is unknown")
		}
	})

	t.Run("numeric comparison fails on unparsable condition value", func(t *testing.T) {
		rule := validTestRule()
		rule.Conditions = []Condition{
			{Field: FieldTotalAmount, Operator: OpGreater, Value: "lots"},
		}
		if rule.Matches(invoice) {
			t.Fatal("unparsable numeric value should fail the condition")
		}
	})
}

func TestCondition_Matches_Operators(t *testing.T) {
	invoice := Invoice{
		SenderEmail: "noreply@vendor.example",
		Subject:     "Invoice 42 attached",
		VendorName:  "Vendor Example Ltd",
	}

	tests := []struct {
		name string
		c    Condition
		want bool
	}{
		{"contains hit", Condition{FieldSubject, OpContains, "42"}, true},
		{"contains miss", Condition{FieldSubject, OpContains, "43"}, false},
		{"equals full string", Condition{FieldVendorName, OpEquals, "vendor example ltd"}, true},
		{"equals partial is a miss", Condition{FieldVendorName, OpEquals, "vendor"}, false},
		{"starts_with", Condition{FieldSenderEmail, OpStartsWith, "NOREPLY@"}, true},
		{"ends_with", Condition{FieldSenderEmail, OpEndsWith, ".example"}, true},
		{"ends_with miss", Condition{FieldSenderEmail, OpEndsWith, ".other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Matches(invoice); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAction_Labels(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single label", "cloud", []string{"cloud"}},
		{"comma-joined", "cloud, office ,hr", []string{"cloud", "office", "hr"}},
		{"empty parts dropped", "cloud,,", []string{"cloud"}},
		{"empty value", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Action{Kind: ActionAddLabel, Value: tt.value}.Labels()
			if len(got) != len(tt.want) {
				t.Fatalf("Labels() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("Labels() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTranslateFilter(t *testing.T) {
	tests := []struct {
		name string
		rule FilterRule
		want bson.M
	}{
		{
			name: "equals",
			rule: FilterRule{Field: "status", Operator: OperatorEquals, Value: "open"},
			want: bson.M{"status": "open"},
		},
		{
			name: "not equals",
			rule: FilterRule{Field: "status", Operator: OperatorNotEquals, Value: "closed"},
			want: bson.M{"status": bson.M{"$ne": "closed"}},
		},
		{
			name: "contains escapes regex metacharacters",
			rule: FilterRule{Field: "title", Operator: OperatorContains, Value: "a.b"},
			want: bson.M{"title": bson.M{"$regex": primitive.Regex{Pattern: `a\.b`, Options: "i"}}},
		},
		{
			name: "not contains",
			rule: FilterRule{Field: "title", Operator: OperatorNotContains, Value: "vpn"},
			want: bson.M{"title": bson.M{"$not": primitive.Regex{Pattern: "vpn", Options: "i"}}},
		},
		{
			name: "starts with",
			rule: FilterRule{Field: "title", Operator: OperatorStartsWith, Value: "Printer"},
			want: bson.M{"title": bson.M{"$regex": primitive.Regex{Pattern: "^Printer", Options: "i"}}},
		},
		{
			name: "ends with",
			rule: FilterRule{Field: "title", Operator: OperatorEndsWith, Value: "down"},
			want: bson.M{"title": bson.M{"$regex": primitive.Regex{Pattern: "down$", Options: "i"}}},
		},
		{
			name: "greater than",
			rule: FilterRule{Field: "time_spent", Operator: OperatorGreaterThan, Value: 30.0},
			want: bson.M{"time_spent": bson.M{"$gt": 30.0}},
		},
		{
			name: "less than parses dates",
			rule: FilterRule{Field: "created_at", Operator: OperatorLessThan, Value: "2024-02-01"},
			want: bson.M{"created_at": bson.M{"$lt": time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}},
		},
		{
			name: "between",
			rule: FilterRule{Field: "time_spent", Operator: OperatorBetween, Value: []any{1.0, 5.0}},
			want: bson.M{"time_spent": bson.M{"$gte": 1.0, "$lte": 5.0}},
		},
		{
			name: "between accepts stored arrays",
			rule: FilterRule{Field: "time_spent", Operator: OperatorBetween, Value: primitive.A{int32(1), int32(5)}},
			want: bson.M{"time_spent": bson.M{"$gte": int32(1), "$lte": int32(5)}},
		},
		{
			name: "between with one bound matches everything",
			rule: FilterRule{Field: "time_spent", Operator: OperatorBetween, Value: []any{1.0}},
			want: bson.M{},
		},
		{
			name: "between with scalar matches everything",
			rule: FilterRule{Field: "time_spent", Operator: OperatorBetween, Value: 3.0},
			want: bson.M{},
		},
		{
			name: "in",
			rule: FilterRule{Field: "priority", Operator: OperatorIn, Value: []any{"high", "critical"}},
			want: bson.M{"priority": bson.M{"$in": []any{"high", "critical"}}},
		},
		{
			name: "in coerces scalar",
			rule: FilterRule{Field: "priority", Operator: OperatorIn, Value: "high"},
			want: bson.M{"priority": bson.M{"$in": []any{"high"}}},
		},
		{
			name: "not in",
			rule: FilterRule{Field: "priority", Operator: OperatorNotIn, Value: []string{"low"}},
			want: bson.M{"priority": bson.M{"$nin": []any{"low"}}},
		},
		{
			name: "is empty",
			rule: FilterRule{Field: "assigned_to", Operator: OperatorIsEmpty},
			want: bson.M{"$or": []bson.M{
				{"assigned_to": nil},
				{"assigned_to": bson.M{"$exists": false}},
			}},
		},
		{
			name: "is not empty",
			rule: FilterRule{Field: "assigned_to", Operator: OperatorIsNotEmpty},
			want: bson.M{"assigned_to": bson.M{"$exists": true, "$ne": nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TranslateFilter(tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateFilterUnknownOperator(t *testing.T) {
	_, err := TranslateFilter(FilterRule{Field: "status", Operator: "like", Value: "x"})
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestBuildFilterQuery(t *testing.T) {
	t.Run("no rules", func(t *testing.T) {
		got, err := BuildFilterQuery(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("and only", func(t *testing.T) {
		got, err := BuildFilterQuery([]FilterRule{
			{Field: "status", Operator: OperatorEquals, Value: "open"},
			{Field: "priority", Operator: OperatorEquals, Value: "high", Conjunction: ConjunctionAnd},
		})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$and": []bson.M{
			{"status": "open"},
			{"priority": "high"},
		}}, got)
	})

	t.Run("and with or group", func(t *testing.T) {
		got, err := BuildFilterQuery([]FilterRule{
			{Field: "status", Operator: OperatorEquals, Value: "open"},
			{Field: "priority", Operator: OperatorEquals, Value: "high", Conjunction: ConjunctionOr},
			{Field: "priority", Operator: OperatorEquals, Value: "critical", Conjunction: ConjunctionOr},
		})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$and": []bson.M{
			{"status": "open"},
			{"$or": []bson.M{{"priority": "high"}, {"priority": "critical"}}},
		}}, got)
	})

	t.Run("first rule ignores its conjunction", func(t *testing.T) {
		got, err := BuildFilterQuery([]FilterRule{
			{Field: "status", Operator: OperatorEquals, Value: "open", Conjunction: ConjunctionOr},
		})
		require.NoError(t, err)
		assert.Equal(t, bson.M{"$and": []bson.M{{"status": "open"}}}, got)
	})

	t.Run("unknown operator names the rule", func(t *testing.T) {
		_, err := BuildFilterQuery([]FilterRule{
			{Field: "status", Operator: OperatorEquals, Value: "open"},
			{Field: "title", Operator: "fuzzy", Value: "x"},
		})
		require.ErrorIs(t, err, ErrUnknownOperator)
		assert.Contains(t, err.Error(), "filter 2")
	})
}

// matchEquality evaluates the equality fragments TranslateFilter emits
// against one record. A missing field satisfies $ne, as in MongoDB.
func matchEquality(t *testing.T, record map[string]any, fragment bson.M) bool {
	t.Helper()
	require.Len(t, fragment, 1)
	for field, cond := range fragment {
		actual, present := record[field]
		if ops, ok := cond.(bson.M); ok {
			ne, ok := ops["$ne"]
			require.True(t, ok, "unexpected operator %v", ops)
			return !present || actual != ne
		}
		return present && actual == cond
	}
	return false
}

func TestEqualsAndNotEqualsPartitionRecords(t *testing.T) {
	records := []map[string]any{
		{"status": "open"},
		{"status": "closed"},
		{"status": "pending"},
		{"status": "open"},
		{"title": "no status"},
	}

	for _, value := range []string{"open", "closed", "archived"} {
		eq, err := TranslateFilter(FilterRule{Field: "status", Operator: OperatorEquals, Value: value})
		require.NoError(t, err)
		ne, err := TranslateFilter(FilterRule{Field: "status", Operator: OperatorNotEquals, Value: value})
		require.NoError(t, err)

		var matchedEq, matchedNe int
		for i, record := range records {
			inEq := matchEquality(t, record, eq)
			inNe := matchEquality(t, record, ne)
			assert.NotEqual(t, inEq, inNe, "record %d for %q", i, value)
			if inEq {
				matchedEq++
			}
			if inNe {
				matchedNe++
			}
		}
		assert.Equal(t, len(records), matchedEq+matchedNe, value)
	}
}

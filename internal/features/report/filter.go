package report

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUnknownOperator = errors.New("unknown filter operator")

// TranslateFilter turns one rule into a match fragment scoped to rule.Field.
// A between rule whose value is not a two element list yields an empty
// fragment, which matches every document.
func TranslateFilter(rule FilterRule) (bson.M, error) {
	field := rule.Field
	value := rule.Value

	switch rule.Operator {
	case OperatorEquals:
		return bson.M{field: value}, nil
	case OperatorNotEquals:
		return bson.M{field: bson.M{"$ne": value}}, nil
	case OperatorContains:
		return bson.M{field: bson.M{"$regex": literalRegex("", value, "")}}, nil
	case OperatorNotContains:
		return bson.M{field: bson.M{"$not": literalRegex("", value, "")}}, nil
	case OperatorStartsWith:
		return bson.M{field: bson.M{"$regex": literalRegex("^", value, "")}}, nil
	case OperatorEndsWith:
		return bson.M{field: bson.M{"$regex": literalRegex("", value, "$")}}, nil
	case OperatorGreaterThan:
		return bson.M{field: bson.M{"$gt": rangeValue(value)}}, nil
	case OperatorLessThan:
		return bson.M{field: bson.M{"$lt": rangeValue(value)}}, nil
	case OperatorBetween:
		bounds, ok := toList(value)
		if !ok || len(bounds) != 2 {
			return bson.M{}, nil
		}
		return bson.M{field: bson.M{"$gte": rangeValue(bounds[0]), "$lte": rangeValue(bounds[1])}}, nil
	case OperatorIn:
		return bson.M{field: bson.M{"$in": coerceList(value)}}, nil
	case OperatorNotIn:
		return bson.M{field: bson.M{"$nin": coerceList(value)}}, nil
	case OperatorIsEmpty:
		return bson.M{"$or": []bson.M{
			{field: nil},
			{field: bson.M{"$exists": false}},
		}}, nil
	case OperatorIsNotEmpty:
		return bson.M{field: bson.M{"$exists": true, "$ne": nil}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, rule.Operator)
	}
}

// BuildFilterQuery combines rules left to right. The first rule and every
// rule not tagged OR join the AND group, OR-tagged rules join the OR group.
// The result is {$and: [and..., {$or: [or...]}]} with empty groups left out.
func BuildFilterQuery(rules []FilterRule) (bson.M, error) {
	var andConditions, orConditions []bson.M

	for i, rule := range rules {
		fragment, err := TranslateFilter(rule)
		if err != nil {
			return nil, fmt.Errorf("filter %d on %q: %w", i+1, rule.Field, err)
		}
		if i > 0 && rule.Conjunction == ConjunctionOr {
			orConditions = append(orConditions, fragment)
		} else {
			andConditions = append(andConditions, fragment)
		}
	}

	conditions := make([]bson.M, 0, len(andConditions)+1)
	conditions = append(conditions, andConditions...)
	if len(orConditions) > 0 {
		conditions = append(conditions, bson.M{"$or": orConditions})
	}

	if len(conditions) == 0 {
		return bson.M{}, nil
	}
	return bson.M{"$and": conditions}, nil
}

// literalRegex matches the text of value literally and case-insensitively.
func literalRegex(prefix string, value any, suffix string) primitive.Regex {
	return primitive.Regex{
		Pattern: prefix + regexp.QuoteMeta(fmt.Sprint(value)) + suffix,
		Options: "i",
	}
}

// rangeValue turns date strings into time.Time so range operators compare
// against stored dates instead of strings.
func rangeValue(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return value
}

func coerceList(value any) []any {
	if list, ok := toList(value); ok {
		return list
	}
	return []any{value}
}

// toList accepts any slice or array, which covers JSON bodies ([]any) and
// queries decoded back from a stored schedule (primitive.A).
func toList(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if _, isBytes := value.([]byte); isBytes {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

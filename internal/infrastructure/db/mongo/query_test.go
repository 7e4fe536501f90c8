package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

func TestScopeFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, scopeFilter(access.Scope{All: true}))
	assert.Equal(t, bson.M{"user_id": "u1"}, scopeFilter(access.Scope{OwnerID: "u1"}))
}

func TestTransactionQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	reconciled := false

	q := transactionQuery(access.Scope{OwnerID: "u1"}, ports.TransactionFilter{
		Type:        domain.TypeExpense,
		Account:     "Bank",
		CategoryIDs: []string{"food", "rent"},
		Tag:         "home",
		Reconciled:  &reconciled,
		From:        from,
		To:          to,
		Query:       "a.b",
	})

	assert.Equal(t, "u1", q["user_id"])
	assert.Equal(t, domain.TypeExpense, q["type"])
	assert.Equal(t, "Bank", q["account"])
	assert.Equal(t, bson.M{"$in": []string{"food", "rent"}}, q["category_id"])
	assert.Equal(t, "home", q["tags"])
	assert.Equal(t, false, q["reconciled"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, q["date"])

	or, ok := q["$or"].(bson.A)
	if assert.True(t, ok) {
		assert.Len(t, or, 4)
		assert.Equal(t, bson.M{"notes": bson.M{"$regex": `a\.b`, "$options": "i"}}, or[0])
	}
}

func TestTransactionQuery_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, transactionQuery(access.Scope{All: true}, ports.TransactionFilter{}))
}

func TestBudgetQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := budgetQuery(access.Scope{All: true}, ports.BudgetFilter{StartFrom: from})
	assert.Equal(t, bson.M{"start_date": bson.M{"$gte": from}}, q)
}

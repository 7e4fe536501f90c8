package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

// scopeFilter turns an ownership scope into the base query document.
func scopeFilter(scope access.Scope) bson.M {
	if scope.All {
		return bson.M{}
	}
	return bson.M{"user_id": scope.OwnerID}
}

// transactionQuery mirrors ports.TransactionFilter.Matches.
func transactionQuery(scope access.Scope, f ports.TransactionFilter) bson.M {
	q := scopeFilter(scope)
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.Account != "" {
		q["account"] = f.Account
	}
	if len(f.CategoryIDs) > 0 {
		q["category_id"] = bson.M{"$in": f.CategoryIDs}
	}
	if f.Tag != "" {
		q["tags"] = f.Tag
	}
	if f.Reconciled != nil {
		q["reconciled"] = *f.Reconciled
	}

	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = f.From
	}
	if !f.To.IsZero() {
		date["$lte"] = f.To
	}
	if len(date) > 0 {
		q["date"] = date
	}

	if f.Query != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"notes": rx},
			bson.M{"vendor": rx},
			bson.M{"client": rx},
			bson.M{"tags": rx},
		}
	}
	return q
}

func budgetQuery(scope access.Scope, f ports.BudgetFilter) bson.M {
	q := scopeFilter(scope)
	if !f.StartFrom.IsZero() {
		q["start_date"] = bson.M{"$gte": f.StartFrom}
	}
	if !f.EndTo.IsZero() {
		q["end_date"] = bson.M{"$lte": f.EndTo}
	}
	return q
}

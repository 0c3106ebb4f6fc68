package resolver

import (
	"strings"

	"github.com/shopspring/decimal"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/reply"
)

// recentSuggestions is how many numbers a detail prompt offers.
const recentSuggestions = 5

type transactionQuery struct {
	intent TransactionIntent
	ledger *aggregate.Ledger
}

func (q *transactionQuery) scope() string {
	return reply.Scope("", q.intent.Years)
}

// sides yields the selected ledger sides with their entries already
// restricted to the requested years.
func (q *transactionQuery) sides() []ledgerSide {
	income, expense := q.intent.selection()
	var out []ledgerSide
	if income {
		out = append(out, ledgerSide{model.TransactionIncome, aggregate.FilterByYears(q.ledger.Income, q.intent.Years)})
	}
	if expense {
		out = append(out, ledgerSide{model.TransactionExpense, aggregate.FilterByYears(q.ledger.Expense, q.intent.Years)})
	}
	return out
}

type ledgerSide struct {
	kind    model.TransactionType
	entries []model.Transaction
}

type transactionRule struct {
	name   string
	match  func(q *transactionQuery) bool
	handle func(q *transactionQuery) string
}

// transactionRules is evaluated top to bottom. ClassifyTransaction only
// engages when one of them applies.
var transactionRules = []transactionRule{
	{name: "number", match: func(q *transactionQuery) bool { return q.intent.Number != "" }, handle: numberReply},
	{name: "detail", match: func(q *transactionQuery) bool {
		return q.intent.Detail && !q.intent.Biggest && !q.intent.Total
	}, handle: detailPromptReply},
	{name: "biggest", match: func(q *transactionQuery) bool { return q.intent.Biggest }, handle: biggestReply},
	{name: "total", match: func(q *transactionQuery) bool { return q.intent.Total }, handle: totalReply},
	{name: "year", match: func(q *transactionQuery) bool { return len(q.intent.Years) > 0 }, handle: yearListingReply},
}

func transactionRuleFor(q *transactionQuery) transactionRule {
	for _, rule := range transactionRules {
		if rule.match(q) {
			return rule
		}
	}
	return transactionRules[len(transactionRules)-1]
}

func numberReply(q *transactionQuery) string {
	if t, ok := aggregate.FindByNumber(q.ledger.Select(true, true), q.intent.Number); ok {
		return reply.TransactionDetail(t)
	}
	return reply.NotFound(q.intent.Number)
}

func detailPromptReply(q *transactionQuery) string {
	var pool []model.Transaction
	for _, side := range q.sides() {
		pool = append(pool, side.entries...)
	}
	return reply.DetailPrompt(reply.Recent(pool, recentSuggestions))
}

func biggestReply(q *transactionQuery) string {
	var lines []string
	for _, side := range q.sides() {
		if t, ok := aggregate.PickLargest(side.entries); ok {
			lines = append(lines, reply.Largest(t, q.scope()))
		} else {
			lines = append(lines, reply.NoTransactions(reply.Kind(side.kind), q.scope()))
		}
	}
	return strings.Join(lines, "\n")
}

func totalReply(q *transactionQuery) string {
	sides := q.sides()
	sums := make(map[model.TransactionType]decimal.Decimal, len(sides))

	var lines []string
	for _, side := range sides {
		var perYear []reply.YearTotal
		for _, y := range q.intent.Years {
			perYear = append(perYear, reply.YearTotal{
				Year:  y,
				Sum:   aggregate.SumTotal(side.entries, y),
				Count: len(aggregate.FilterByYears(side.entries, []string{y})),
			})
		}
		sum := aggregate.SumTotal(side.entries, "")
		sums[side.kind] = sum
		lines = append(lines, reply.Total(reply.Kind(side.kind), q.scope(), sum, len(side.entries), perYear))
	}

	if len(sides) == 2 {
		lines = append(lines, reply.Difference(q.scope(), sums[model.TransactionIncome], sums[model.TransactionExpense]))
	}
	return strings.Join(lines, "\n")
}

func yearListingReply(q *transactionQuery) string {
	income, expense := q.intent.selection()
	var pool []model.Transaction
	for _, side := range q.sides() {
		pool = append(pool, side.entries...)
	}
	return reply.TransactionListing(reply.SelectionKind(income, expense), q.scope(), aggregate.SortByDate(pool))
}

package summary

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/basbook/internal/importer"
	"github.com/cleared-dev/basbook/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCalculate_AllCategories(t *testing.T) {
	set, err := importer.ParseFile(&importer.StandardParser{}, "../../testdata/transactions.csv")
	require.NoError(t, err)

	s := Calculate(set)
	assertDec(t, "100", s.Income, "income")
	assertDec(t, "50", s.Expenses, "expenses")
	assertDec(t, "50", s.ProfitLoss, "profit_loss")
	assertDec(t, "200", s.Assets, "assets")
	assertDec(t, "100", s.Liabilities, "liabilities")
	assertDec(t, "10", s.GSTCollected, "gst_collected")
	assertDec(t, "5", s.GSTPaid, "gst_paid")
	assertDec(t, "5", s.GSTNet, "gst_net")
}

func TestCalculate_Empty(t *testing.T) {
	s := Calculate(model.RecordSet{})
	for name, v := range map[string]decimal.Decimal{
		"income": s.Income, "expenses": s.Expenses, "profit_loss": s.ProfitLoss,
		"assets": s.Assets, "liabilities": s.Liabilities,
		"gst_collected": s.GSTCollected, "gst_paid": s.GSTPaid, "gst_net": s.GSTNet,
	} {
		assert.True(t, v.IsZero(), "%s should be zero", name)
	}
}

func TestCalculate_UnknownCategoryIgnored(t *testing.T) {
	set := model.NewRecordSet([]model.Transaction{
		{Amount: dec("100"), Category: model.CategoryIncome, GST: dec("10")},
		{Amount: dec("999"), Category: "equity", GST: dec("99")},
		{Amount: dec("5"), Category: "", GST: dec("1")},
	})
	s := Calculate(set)
	assertDec(t, "100", s.Income, "income")
	assertDec(t, "10", s.GSTCollected, "gst_collected")
	assertDec(t, "100", s.ProfitLoss, "profit_loss")
}

func TestCalculate_SignedAmounts(t *testing.T) {
	set := model.NewRecordSet([]model.Transaction{
		{Amount: dec("100"), Category: model.CategoryIncome},
		{Amount: dec("-20"), Category: model.CategoryIncome},
		{Amount: dec("-30"), Category: model.CategoryExpense},
	})
	s := Calculate(set)
	assertDec(t, "80", s.Income, "income")
	assertDec(t, "-30", s.Expenses, "expenses")
	assertDec(t, "110", s.ProfitLoss, "profit_loss")
}

func TestCalculate_NonNumericAmountContributesZero(t *testing.T) {
	data := "date,description,amount,category,gst\n2024-01-01,Fee,100,income,10\n2024-01-02,Oops,abc,income,n/a\n"
	set, err := (&importer.StandardParser{}).Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	s := Calculate(set)
	assertDec(t, "100", s.Income, "income")
	assertDec(t, "10", s.GSTCollected, "gst_collected")
}

func TestCalculate_ExactDecimalSums(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, model.Transaction{Amount: dec("0.1"), Category: model.CategoryIncome})
	}
	s := Calculate(model.NewRecordSet(txns))
	assertDec(t, "1", s.Income, "income")
}

func TestCalculate_OrderIndependent(t *testing.T) {
	cats := []model.Category{model.CategoryIncome, model.CategoryExpense, model.CategoryAsset, model.CategoryLiability}
	rng := rand.New(rand.NewSource(42))

	var txns []model.Transaction
	for i := 0; i < 200; i++ {
		txns = append(txns, model.Transaction{
			Amount:   decimal.New(rng.Int63n(200000)-100000, -2),
			GST:      decimal.New(rng.Int63n(10000), -2),
			Category: cats[rng.Intn(len(cats))],
		})
	}
	want := Calculate(model.NewRecordSet(txns))

	rng.Shuffle(len(txns), func(i, j int) { txns[i], txns[j] = txns[j], txns[i] })
	got := Calculate(model.NewRecordSet(txns))

	assertDec(t, want.Income.String(), got.Income, "income")
	assertDec(t, want.Expenses.String(), got.Expenses, "expenses")
	assertDec(t, want.Assets.String(), got.Assets, "assets")
	assertDec(t, want.Liabilities.String(), got.Liabilities, "liabilities")
	assertDec(t, want.GSTNet.String(), got.GSTNet, "gst_net")

	assert.True(t, got.ProfitLoss.Equal(got.Income.Sub(got.Expenses)))
	assert.True(t, got.GSTNet.Equal(got.GSTCollected.Sub(got.GSTPaid)))
}

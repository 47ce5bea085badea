package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/entity"
	"github.com/provc/provc/internal/testutil"
)

// =============================================================================
// Produces-method validation
// =============================================================================

func TestProducesValidMethod(t *testing.T) {
	m := testutil.ProducesMethod("create", "OrderService",
		entity.Param{Name: "client", Type: "HttpClient"})
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.True(t, valid.Contains(m))
	assert.Empty(t, sink.Items())
}

func TestProducesMissingReturn(t *testing.T) {
	m := testutil.ProducesMethod("create", "")
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	require.Len(t, sink.Items(), 1)
	assert.Equal(t, ErrProducesNoReturn, sink.Items()[0].Code)
	assert.Equal(t, "Orders.create", sink.Items()[0].Entity)
}

func TestProducesPrivateMethod(t *testing.T) {
	m := testutil.ProducesMethod("create", "OrderService")
	m.Private = true
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	require.Len(t, sink.Items(), 1)
	assert.Equal(t, ErrProducesPrivate, sink.Items()[0].Code)
}

func TestProducesAbstractMethod(t *testing.T) {
	m := testutil.ProducesMethod("create", "OrderService")
	m.Abstract = true
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrProducesAbstract, sink.Items()[0].Code)
}

func TestProducesStaticMethod(t *testing.T) {
	m := testutil.ProducesMethod("create", "OrderService")
	m.Static = true
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrProducesStatic, sink.Items()[0].Code)
}

func TestProducesDuplicateParams(t *testing.T) {
	m := testutil.ProducesMethod("create", "OrderService",
		entity.Param{Name: "client", Type: "HttpClient"},
		entity.Param{Name: "client", Type: "Cache"})
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrProducesDuplicateParam, sink.Items()[0].Code)
}

func TestProducesUnexportedReturnType(t *testing.T) {
	m := testutil.ProducesMethod("create", "orderService")
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrProducesBadType, sink.Items()[0].Code)
}

func TestProducesQualifiedReturnType(t *testing.T) {
	m := testutil.ProducesMethod("create", "payments.Gateway")
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.True(t, valid.Contains(m))
	assert.Empty(t, sink.Items())
}

func TestProducesCollectsAllFindings(t *testing.T) {
	// An invalid method reports every broken rule, not just the first.
	m := testutil.ProducesMethod("create", "")
	m.Private = true
	m.Static = true
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewProducesValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	codes := make([]string, 0, sink.Len())
	for _, d := range sink.Items() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{ErrProducesNoReturn, ErrProducesPrivate, ErrProducesStatic}, codes)
}

// =============================================================================
// Binds-method validation
// =============================================================================

func TestBindsValidMethod(t *testing.T) {
	m := testutil.BindsMethod("bindStore", "OrderStore",
		entity.Param{Name: "impl", Type: "SqlOrderStore"})
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewBindsValidator().Validate(sink, []*entity.Entity{m})

	assert.True(t, valid.Contains(m))
	assert.Empty(t, sink.Items())
}

func TestBindsNotAbstract(t *testing.T) {
	m := testutil.BindsMethod("bindStore", "OrderStore",
		entity.Param{Name: "impl", Type: "SqlOrderStore"})
	m.Abstract = false
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewBindsValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrBindsNotAbstract, sink.Items()[0].Code)
}

func TestBindsWrongParamCount(t *testing.T) {
	m := testutil.BindsMethod("bindStore", "OrderStore",
		entity.Param{Name: "impl", Type: "SqlOrderStore"})
	m.Params = append(m.Params, entity.Param{Name: "extra", Type: "Cache"})
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewBindsValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrBindsParamCount, sink.Items()[0].Code)
}

func TestBindsMissingReturn(t *testing.T) {
	m := testutil.BindsMethod("bindStore", "",
		entity.Param{Name: "impl", Type: "SqlOrderStore"})
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewBindsValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrBindsNoReturn, sink.Items()[0].Code)
}

func TestBindsStatic(t *testing.T) {
	m := testutil.BindsMethod("bindStore", "OrderStore",
		entity.Param{Name: "impl", Type: "SqlOrderStore"})
	m.Static = true
	testutil.Module("Orders", m)

	sink := diag.NewCollector()
	valid := NewBindsValidator().Validate(sink, []*entity.Entity{m})

	assert.False(t, valid.Contains(m))
	assert.Equal(t, ErrBindsStatic, sink.Items()[0].Code)
}

// =============================================================================
// Validator behavior
// =============================================================================

func TestValidateIsIndependentPerCall(t *testing.T) {
	// The same candidate validated twice reports twice: no cross-call
	// memoization exists at this layer.
	m := testutil.ProducesMethod("create", "")
	testutil.Module("Orders", m)
	v := NewProducesValidator()

	sink := diag.NewCollector()
	v.Validate(sink, []*entity.Entity{m})
	v.Validate(sink, []*entity.Entity{m})

	assert.Len(t, sink.Items(), 2)
}

func TestValidateKeepsCandidateOrder(t *testing.T) {
	bad1 := testutil.ProducesMethod("a", "")
	bad2 := testutil.ProducesMethod("b", "")
	testutil.Module("Orders", bad1, bad2)

	sink := diag.NewCollector()
	NewProducesValidator().Validate(sink, []*entity.Entity{bad1, bad2})

	require.Len(t, sink.Items(), 2)
	assert.Equal(t, "Orders.a", sink.Items()[0].Entity)
	assert.Equal(t, "Orders.b", sink.Items()[1].Entity)
}

func TestForMarker(t *testing.T) {
	assert.Equal(t, entity.MarkerProduces, ForMarker(entity.MarkerProduces).Marker())
	assert.Equal(t, entity.MarkerBinds, ForMarker(entity.MarkerBinds).Marker())
	assert.Nil(t, ForMarker(entity.MarkerProducerModule))
}

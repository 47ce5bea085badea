package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provc/provc/internal/entity"
)

func compileModule(t *testing.T, src, path string) (*entity.Entity, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileModule(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileModuleBasic(t *testing.T) {
	src := `
module: Orders: {
	method: create: {
		marker: "produces"
		returns: "OrderService"
		params: [{name: "client", type: "HttpClient"}]
	}
}
`
	module, err := compileModule(t, src, "module.Orders")
	require.NoError(t, err)

	assert.Equal(t, "Orders", module.Name)
	assert.Equal(t, entity.KindType, module.Kind)
	assert.True(t, module.HasMarker(entity.MarkerProducerModule))
	assert.True(t, module.Resolved, "resolved defaults to true")
	assert.False(t, module.Private)
	assert.Empty(t, module.Supertype)

	require.Len(t, module.Methods, 1)
	m := module.Methods[0]
	assert.Equal(t, "Orders.create", m.Name)
	assert.Equal(t, entity.KindMethod, m.Kind)
	assert.Same(t, module, m.Enclosing)
	assert.True(t, m.HasMarker(entity.MarkerProduces))
	assert.Equal(t, "OrderService", m.Returns)
	require.Len(t, m.Params, 1)
	assert.Equal(t, entity.Param{Name: "client", Type: "HttpClient"}, m.Params[0])
}

func TestCompileModuleFlags(t *testing.T) {
	src := `
module: Billing: {
	resolved: false
	private: true
	supertype: "BaseModule"
	method: bindStore: {
		marker: "binds"
		returns: "InvoiceStore"
		params: [{name: "impl", type: "SqlInvoiceStore"}]
		abstract: true
	}
}
`
	module, err := compileModule(t, src, "module.Billing")
	require.NoError(t, err)

	assert.False(t, module.Resolved)
	assert.True(t, module.Private)
	assert.Equal(t, "BaseModule", module.Supertype)

	require.Len(t, module.Methods, 1)
	m := module.Methods[0]
	assert.True(t, m.HasMarker(entity.MarkerBinds))
	assert.True(t, m.Abstract)
	assert.False(t, m.Static)
}

func TestCompileModuleMarkerList(t *testing.T) {
	src := `
module: Odd: {
	method: both: {
		markers: ["produces", "binds"]
		returns: "Service"
	}
}
`
	module, err := compileModule(t, src, "module.Odd")
	require.NoError(t, err)

	require.Len(t, module.Methods, 1)
	assert.True(t, module.Methods[0].HasMarker(entity.MarkerProduces))
	assert.True(t, module.Methods[0].HasMarker(entity.MarkerBinds))
}

func TestCompileModuleMethodOrder(t *testing.T) {
	src := `
module: Orders: {
	method: zeta: {marker: "produces", returns: "Zeta"}
	method: alpha: {marker: "produces", returns: "Alpha"}
}
`
	module, err := compileModule(t, src, "module.Orders")
	require.NoError(t, err)

	require.Len(t, module.Methods, 2)
	assert.Equal(t, "Orders.zeta", module.Methods[0].Name)
	assert.Equal(t, "Orders.alpha", module.Methods[1].Name)
}

func TestCompileModuleNoMethods(t *testing.T) {
	module, err := compileModule(t, `module: Empty: {}`, "module.Empty")
	require.NoError(t, err)
	assert.Empty(t, module.Methods)
}

func TestCompileModuleMissingParamName(t *testing.T) {
	src := `
module: Orders: {
	method: create: {
		marker: "produces"
		returns: "OrderService"
		params: [{type: "HttpClient"}]
	}
}
`
	_, err := compileModule(t, src, "module.Orders")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Message, "parameter name is required")
}

func TestCompileModuleBadFlagType(t *testing.T) {
	src := `
module: Orders: {
	resolved: "yes"
}
`
	_, err := compileModule(t, src, "module.Orders")
	assert.Error(t, err)
}

func TestCompileErrorFormatting(t *testing.T) {
	err := &CompileError{Field: "method.create.params", Message: "parameter name is required"}
	assert.Equal(t, "method.create.params: parameter name is required", err.Error())
}

package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modfabric/modfabric/internal/contract"
	"github.com/modfabric/modfabric/internal/registry"
)

func TestSatisfiedServiceDependency(t *testing.T) {
	// Scenario A: auth provides authService, profile consumes it.
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "auth", contract.NewBuilder().ProvidesService("authService").Build())
	reg.Register(ctx, "profile", contract.NewBuilder().ConsumesService("authService").Build())

	results := New().ValidateAll(ctx, reg)
	require.Len(t, results, 2)
	assert.True(t, results["auth"].Valid)
	assert.True(t, results["profile"].Valid)
	assert.Empty(t, results["auth"].Errors)
	assert.Empty(t, results["profile"].Errors)
}

func TestMissingServiceDependency(t *testing.T) {
	// Scenario B: profile consumes authService, nobody provides it.
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "profile", contract.NewBuilder().ConsumesService("authService").Build())

	res := New().Validate(ctx, "profile", reg)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Service 'authService' is consumed but not provided by any feature", res.Errors[0])
	assert.Equal(t, []string{"service:authService"}, res.MissingDependencies)
}

func TestMissingBindingDependency(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "cart", contract.NewBuilder().ConsumesBinding("useCheckout").Build())

	res := New().Validate(ctx, "cart", reg)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Binding 'useCheckout' is consumed but not provided by any feature", res.Errors[0])
}

func TestPlatformBindingsAreExempt(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "nav", contract.NewBuilder().
		ConsumesBinding("useSharedState", "useNavigation", "useModuleState").
		Build())

	res := New().Validate(ctx, "nav", reg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestPlatformBindingsAreInjectable(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "nav", contract.NewBuilder().ConsumesBinding("useHostShell").Build())

	// Default list does not exempt custom platform bindings.
	res := New().Validate(ctx, "nav", reg)
	assert.False(t, res.Valid)

	res = New(WithPlatformBindings("useHostShell")).Validate(ctx, "nav", reg)
	assert.True(t, res.Valid)
}

func TestDuplicateProvidersWarnBothSides(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "auth", contract.NewBuilder().ProvidesService("authService").Build())
	reg.Register(ctx, "legacy-auth", contract.NewBuilder().ProvidesService("authService").Build())

	results := New().ValidateAll(ctx, reg)

	require.Len(t, results["auth"].Warnings, 1)
	assert.Contains(t, results["auth"].Warnings[0], "authService")
	assert.Contains(t, results["auth"].Warnings[0], "legacy-auth")

	require.Len(t, results["legacy-auth"].Warnings, 1)
	assert.Contains(t, results["legacy-auth"].Warnings[0], "auth")

	// Duplication alone is never an error.
	assert.True(t, results["auth"].Valid)
	assert.True(t, results["legacy-auth"].Valid)
}

func TestConsumedStateKeyIsWarningOnly(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "profile", contract.NewBuilder().ConsumesStateKey("session").Build())

	res := New().Validate(ctx, "profile", reg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "State key 'session' is consumed but not provided by any feature", res.Warnings[0])
}

func TestKnownStateKeysSuppressWarning(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "profile", contract.NewBuilder().ConsumesStateKey("session").Build())

	res := New(WithKnownStateKeys("session")).Validate(ctx, "profile", reg)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestSelfProvisionDoesNotSatisfyConsumption(t *testing.T) {
	// A module providing and consuming the same service still needs another provider.
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "solo", contract.NewBuilder().
		ProvidesService("soloService").
		ConsumesService("soloService").
		Build())

	res := New().Validate(ctx, "solo", reg)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Service 'soloService' is consumed but not provided by any feature", res.Errors[0])
}

func TestValidatorIsPure(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	reg.Register(ctx, "a", contract.NewBuilder().ConsumesService("x").Build())

	v := New()
	first := v.ValidateAll(ctx, reg)
	second := v.ValidateAll(ctx, reg)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a"}, reg.Names())
}

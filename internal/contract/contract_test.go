package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderChaining(t *testing.T) {
	c := NewBuilder().
		ProvidesService("authService").
		ProvidesBinding("useAuth").
		ProvidesRendering("LoginForm", "LogoutButton").
		ProvidesType("Session").
		ConsumesService("apiService").
		ConsumesBinding("useNavigation").
		ConsumesStateKey("user").
		Build()

	assert.Equal(t, []string{"authService"}, c.Provides().Services)
	assert.Equal(t, []string{"useAuth"}, c.Provides().Bindings)
	assert.Equal(t, []string{"LoginForm", "LogoutButton"}, c.Provides().Rendering)
	assert.Equal(t, []string{"Session"}, c.Provides().Types)
	assert.Equal(t, []string{"apiService"}, c.Consumes().Services)
	assert.Equal(t, []string{"useNavigation"}, c.Consumes().Bindings)
	assert.Equal(t, []string{"user"}, c.Consumes().StateKeys)
}

func TestBuilderCollapsesDuplicates(t *testing.T) {
	c := NewBuilder().
		ProvidesService("a", "b", "a").
		ProvidesService("b").
		ConsumesStateKey("k", "k").
		Build()

	assert.Equal(t, []string{"a", "b"}, c.Provides().Services)
	assert.Equal(t, []string{"k"}, c.Consumes().StateKeys)
}

func TestContractIsImmutable(t *testing.T) {
	b := NewBuilder().ProvidesService("svc")
	c := b.Build()

	// Mutating the returned slices must not leak back into the contract.
	p := c.Provides()
	require.Len(t, p.Services, 1)
	p.Services[0] = "mutated"
	assert.Equal(t, []string{"svc"}, c.Provides().Services)

	// Building again after further declarations must not change the old snapshot.
	b.ProvidesService("other")
	assert.Equal(t, []string{"svc"}, c.Provides().Services)
	assert.Equal(t, []string{"svc", "other"}, b.Build().Provides().Services)
}

func TestEmptyContract(t *testing.T) {
	c := NewBuilder().Build()
	assert.Empty(t, c.Provides().Services)
	assert.Empty(t, c.Consumes().Services)
	assert.False(t, c.ProvidesService("anything"))
	assert.False(t, c.ProvidesBinding("anything"))
}

package kube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	namespacedDesc = Descriptor{Group: "apps", Version: "v1", Kind: "Deployment", Plural: "deployments", Namespaced: true}
	clusterDesc    = Descriptor{Version: "v1", Kind: "Namespace", Plural: "namespaces", Namespaced: false}
)

func TestResolveTargetConflictingScope(t *testing.T) {
	_, err := ResolveTarget(namespacedDesc, "default", true)
	assert.ErrorIs(t, err, ErrConflictingScope)

	// the conflict is rejected regardless of the descriptor
	_, err = ResolveTarget(clusterDesc, "default", true)
	assert.ErrorIs(t, err, ErrConflictingScope)
}

func TestResolveTargetMissingNamespace(t *testing.T) {
	_, err := ResolveTarget(namespacedDesc, "", false)
	assert.ErrorIs(t, err, ErrMissingNamespace)
}

func TestResolveTargetNamespaced(t *testing.T) {
	target, err := ResolveTarget(namespacedDesc, "default", false)
	require.NoError(t, err)

	assert.Equal(t, ScopeNamespaced, target.Scope)
	assert.Equal(t, "default", target.Namespace)
}

func TestResolveTargetAllNamespaces(t *testing.T) {
	target, err := ResolveTarget(namespacedDesc, "", true)
	require.NoError(t, err)

	assert.Equal(t, ScopeAllNamespaces, target.Scope)
	assert.Empty(t, target.Namespace)
}

func TestResolveTargetClusterScopedIgnoresNamespace(t *testing.T) {
	target, err := ResolveTarget(clusterDesc, "default", false)
	require.NoError(t, err)

	assert.Equal(t, ScopeCluster, target.Scope)
	assert.Empty(t, target.Namespace)
}

func TestResolveTargetClusterScopedPlain(t *testing.T) {
	target, err := ResolveTarget(clusterDesc, "", false)
	require.NoError(t, err)

	assert.Equal(t, ScopeCluster, target.Scope)
}

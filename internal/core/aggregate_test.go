//
//  Copyright © Stackport Inc. All rights reserved.
//

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
)

func TestUserGroupNames(t *testing.T) {
	user := &model.UserIdentity{
		UserRef: "user:default/alice",
		OwnershipRefs: []string{
			"user:default/alice",
			"group:default/platform-team",
			"Group:default/sre",
			"GROUP:default/shouting",
			"gRoUp:default/mixed",
			"group:default/platform-team",
			"bare-name",
		},
	}

	// Only the exact "group:" and "Group:" prefixes are group claims, and
	// duplicates collapse to the first occurrence
	assert.Equal(t, []string{"platform-team", "sre"}, userGroupNames(user))
}

func TestUserGroupNamesEmpty(t *testing.T) {
	assert.Empty(t, userGroupNames(&model.UserIdentity{UserRef: "user:default/alice"}))
}

func TestOwnedByUser(t *testing.T) {
	user := &model.UserIdentity{
		UserRef:       "user:default/alice",
		OwnershipRefs: []string{"user:default/alice", "group:default/platform-team"},
	}

	// Canonical name matches the user ref tail and the refs assert the claim
	d := parseOwner("user:default/alice")
	assert.True(t, ownedByUser(user, "user:default/alice", d))

	// A namespace variant still corresponds via the ref tail
	d = parseOwner("user:acme/alice")
	assert.True(t, ownedByUser(user, "user:acme/alice", d))
}

func TestOwnedByUserRequiresClaim(t *testing.T) {
	// The identity's refs never assert the claim, so the matching name alone
	// must not grant ownership
	user := &model.UserIdentity{
		UserRef:       "user:default/alice",
		OwnershipRefs: []string{"group:default/platform-team"},
	}

	d := parseOwner("user:default/alice")
	assert.False(t, ownedByUser(user, "user:default/alice", d), "a name match without an ownership claim is not ownership")
}

func TestOwnedByUserDifferentUser(t *testing.T) {
	bob := &model.UserIdentity{
		UserRef:       "user:default/bob",
		OwnershipRefs: []string{"user:default/bob"},
	}

	d := parseOwner("user:default/alice")
	assert.False(t, ownedByUser(bob, "user:default/alice", d))
}

func TestOwnedByUserVerbatimRef(t *testing.T) {
	// A namespace-less user ref matches through the verbatim comparison
	user := &model.UserIdentity{
		UserRef:       "user:alice",
		OwnershipRefs: []string{"user:alice"},
	}

	d := parseOwner("user:alice")
	assert.True(t, ownedByUser(user, "user:alice", d))
}

func TestAggregate(t *testing.T) {
	user := &model.UserIdentity{
		UserRef:       "user:default/alice",
		OwnershipRefs: []string{"user:default/alice", "group:default/platform-team"},
	}

	applications := []*model.Application{
		{Name: "billing", Owner: "user:default/alice"},
		{Name: "checkout", Owner: "group:default/platform-team"},
		{Name: "search", Owner: "group:default/data-team"},
		{Name: "legacy"},
		{Name: "catalog", Owner: "group:default/platform-team"},
	}

	snapshot := aggregate(user, parseApplications(applications), nil)

	assert.Equal(t, []string{"billing"}, snapshot.UserOwnedNames)
	assert.Equal(t, map[string][]string{"platform-team": {"checkout", "catalog"}}, snapshot.GroupOwnedNames, "group buckets preserve input order")
	assert.Equal(t, []string{"platform-team"}, snapshot.UserGroups)

	assert.Len(t, snapshot.OwnerByApplication, 5, "every application records an owner descriptor")
	assert.Equal(t, model.UnassignedOwner(), snapshot.OwnerByApplication["legacy"])
	assert.Equal(t, "data-team", snapshot.OwnerByApplication["search"].CanonicalName)

	// An application lands in at most one bucket
	for _, name := range snapshot.UserOwnedNames {
		for group, names := range snapshot.GroupOwnedNames {
			assert.NotContains(t, names, name, "%s must not also appear under group %s", name, group)
		}
	}
}

func TestAggregateStructuredOwner(t *testing.T) {
	user := &model.UserIdentity{
		UserRef:       "user:default/alice",
		OwnershipRefs: []string{"group:default/platform-team"},
	}

	applications := []*model.Application{
		{Name: "checkout", Owner: map[string]interface{}{"ref": "group:default/platform-team"}},
		{Name: "mystery", Owner: map[string]interface{}{"kind": "group"}},
	}

	snapshot := aggregate(user, parseApplications(applications), nil)

	assert.Equal(t, map[string][]string{"platform-team": {"checkout"}}, snapshot.GroupOwnedNames)
	assert.Equal(t, model.UnassignedOwner(), snapshot.OwnerByApplication["mystery"], "a structured owner without a ref is unassigned")
}

func TestAggregateUnassignedNeverBucketed(t *testing.T) {
	// Even a user who claims a group literally named "unassigned" owns
	// nothing through ownerless applications
	user := &model.UserIdentity{
		UserRef:       "user:default/unassigned",
		OwnershipRefs: []string{"user:default/unassigned", "group:default/unassigned"},
	}

	applications := []*model.Application{
		{Name: "orphan"},
		{Name: "empty-owner", Owner: ""},
	}

	snapshot := aggregate(user, parseApplications(applications), nil)

	assert.Empty(t, snapshot.UserOwnedNames)
	assert.Empty(t, snapshot.GroupOwnedNames)
	assert.Equal(t, model.UnassignedOwner(), snapshot.OwnerByApplication["orphan"])
	assert.Equal(t, model.UnassignedOwner(), snapshot.OwnerByApplication["empty-owner"])
}

func TestAggregateAppliesEnrichedNames(t *testing.T) {
	user := &model.UserIdentity{
		UserRef:       "user:default/alice",
		OwnershipRefs: []string{"group:default/platform-team"},
	}

	applications := []*model.Application{
		{Name: "checkout", Owner: "group:default/platform-team"},
	}

	enriched := map[string]enrichment{
		"Group:default/platform-team": {displayName: "Platform Team", resolved: true},
	}

	snapshot := aggregate(user, parseApplications(applications), enriched)

	owner := snapshot.OwnerByApplication["checkout"]
	assert.Equal(t, "platform-team", owner.CanonicalName, "enrichment never changes the canonical name")
	assert.Equal(t, "Platform Team", owner.DisplayName)
	assert.Equal(t, map[string][]string{"platform-team": {"checkout"}}, snapshot.GroupOwnedNames, "bucketing matches on the canonical name")
}

func TestHasIntegrationAnnotation(t *testing.T) {
	config.ResetConfig()

	assert.True(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"github.com/project-slug": "acme/billing"},
	}))

	assert.False(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"some.other/annotation": "x"},
	}))

	assert.False(t, hasIntegrationAnnotation(&model.Application{}))

	// Present but empty values do not count
	assert.False(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"github.com/project-slug": ""},
	}))
	assert.False(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"github.com/project-slug": nil},
	}))
}

func TestHasIntegrationAnnotationConfigurable(t *testing.T) {
	config.ResetConfig()
	config.VConfig.Set(config.IntegrationAnnotations, []string{"pagerduty.com/service-id"})

	assert.True(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"pagerduty.com/service-id": "PD123"},
	}))

	assert.False(t, hasIntegrationAnnotation(&model.Application{
		Annotations: model.Annotations{"github.com/project-slug": "acme/billing"},
	}), "keys outside the configured set are not integrations")
}

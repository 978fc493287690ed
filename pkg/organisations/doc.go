// Package organisations models the tenancy layer: organisations, user
// memberships with their two roles, and permission groups.
//
// An organisation is the top-level tenant. Users join it as plain members or
// admins; admins implicitly hold every permission on everything the
// organisation owns, which the permissions package relies on. Permission
// groups collect users of one organisation so project grants can target many
// users at once.
//
// # Usage
//
//	store := organisations.NewMemoryStore()
//
//	org := organisations.NewOrganisation("acme")
//	if err := store.CreateOrganisation(ctx, org); err != nil {
//	    return err
//	}
//	if err := store.AddMember(ctx, org.ID, userID, organisations.RoleAdmin); err != nil {
//	    return err
//	}
//
//	devs := organisations.NewGroup(org.ID, "developers")
//	_ = store.CreateGroup(ctx, devs)
//	_ = store.AddGroupMember(ctx, devs.ID, userID)
//
// NewPGStore provides the same Store contract on PostgreSQL, using the
// schema shipped in the migrations package. It additionally revokes a
// removed member's direct project grants in the same transaction, since no
// foreign key can express that cascade.
//
// # Invariants
//
// A user holds at most one membership per organisation; AddMember refuses
// duplicates and UpdateMemberRole changes the role in place. Group members
// must belong to the group's organisation, and removing an organisation
// member also removes them from the organisation's groups.
package organisations

package permissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/flagkit/flagkit/pkg/organisations"
)

// Collection names used by MongoSource.
const (
	collMemberships  = "memberships"
	collGroupMembers = "group_members"
	collUserGrants   = "user_grants"
	collGroupGrants  = "group_grants"
)

// MongoSource is a document-store MembershipSource and GrantStore for
// deployments keeping access-control data in MongoDB. Identifiers are stored
// as UUID strings. Membership and group-membership documents are read-only
// here; populating them is the deployment's concern, the same way user CRUD
// is outside this library.
type MongoSource struct {
	db *mongo.Database
}

// NewMongoSource creates a source on top of a connected database handle.
func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{db: db}
}

type membershipDoc struct {
	UserID         string    `bson:"user_id"`
	OrganisationID string    `bson:"organisation_id"`
	Role           string    `bson:"role"`
	CreatedAt      time.Time `bson:"created_at"`
}

type grantDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id,omitempty"`
	GroupID   string    `bson:"group_id,omitempty"`
	ProjectID string    `bson:"project_id"`
	Admin     bool      `bson:"admin"`
	Keys      []string  `bson:"permissions"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Membership implements MembershipSource.
func (s *MongoSource) Membership(ctx context.Context, userID, orgID uuid.UUID) (*organisations.Membership, error) {
	filter := bson.M{"user_id": userID.String(), "organisation_id": orgID.String()}

	var doc membershipDoc
	if err := s.db.Collection(collMemberships).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, organisations.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("fetch membership: %w", err)
	}

	return &organisations.Membership{
		UserID:         userID,
		OrganisationID: orgID,
		Role:           organisations.Role(doc.Role),
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// UserGrants implements GrantSource.
func (s *MongoSource) UserGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	filter := bson.M{"user_id": userID.String(), "project_id": projectID.String()}
	docs, err := s.findGrants(ctx, collUserGrants, filter)
	if err != nil {
		return nil, err
	}
	return readShapes(docs), nil
}

// GroupGrants implements GrantSource: first the user's group memberships,
// then the grants those groups hold on the project.
func (s *MongoSource) GroupGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	var groupIDs []string
	err := s.db.Collection(collGroupMembers).
		Distinct(ctx, "group_id", bson.M{"user_id": userID.String()}).
		Decode(&groupIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch group memberships: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil, nil
	}

	filter := bson.M{"project_id": projectID.String(), "group_id": bson.M{"$in": groupIDs}}
	docs, err := s.findGrants(ctx, collGroupGrants, filter)
	if err != nil {
		return nil, err
	}
	return readShapes(docs), nil
}

// PutUserGrant implements GrantStore. The upsert keys on (user, project) and
// keeps the original ID and creation time when replacing.
func (s *MongoSource) PutUserGrant(ctx context.Context, grant UserGrant) error {
	now := time.Now().UTC()
	filter := bson.M{"user_id": grant.UserID.String(), "project_id": grant.ProjectID.String()}
	update := bson.M{
		"$set": bson.M{
			"admin":       grant.Admin,
			"permissions": toStrings(grant.Keys),
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"_id":        grant.ID.String(),
			"user_id":    grant.UserID.String(),
			"project_id": grant.ProjectID.String(),
			"created_at": now,
		},
	}

	_, err := s.db.Collection(collUserGrants).
		UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put user grant: %w", err)
	}
	return nil
}

// PutGroupGrant implements GrantStore with the same upsert semantics keyed
// on (group, project).
func (s *MongoSource) PutGroupGrant(ctx context.Context, grant GroupGrant) error {
	now := time.Now().UTC()
	filter := bson.M{"group_id": grant.GroupID.String(), "project_id": grant.ProjectID.String()}
	update := bson.M{
		"$set": bson.M{
			"admin":       grant.Admin,
			"permissions": toStrings(grant.Keys),
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"_id":        grant.ID.String(),
			"group_id":   grant.GroupID.String(),
			"project_id": grant.ProjectID.String(),
			"created_at": now,
		},
	}

	_, err := s.db.Collection(collGroupGrants).
		UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put group grant: %w", err)
	}
	return nil
}

// DeleteUserGrant implements GrantStore.
func (s *MongoSource) DeleteUserGrant(ctx context.Context, id uuid.UUID) (*UserGrant, error) {
	var doc grantDoc
	err := s.db.Collection(collUserGrants).
		FindOneAndDelete(ctx, bson.M{"_id": id.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("delete user grant: %w", err)
	}
	return userGrant(doc)
}

// DeleteGroupGrant implements GrantStore.
func (s *MongoSource) DeleteGroupGrant(ctx context.Context, id uuid.UUID) (*GroupGrant, error) {
	var doc grantDoc
	err := s.db.Collection(collGroupGrants).
		FindOneAndDelete(ctx, bson.M{"_id": id.String()}).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("delete group grant: %w", err)
	}
	return groupGrant(doc)
}

// UserGrantsByProject implements GrantStore.
func (s *MongoSource) UserGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]UserGrant, error) {
	docs, err := s.findGrants(ctx, collUserGrants, bson.M{"project_id": projectID.String()})
	if err != nil {
		return nil, err
	}

	list := make([]UserGrant, 0, len(docs))
	for _, doc := range docs {
		g, err := userGrant(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, nil
}

// GroupGrantsByProject implements GrantStore.
func (s *MongoSource) GroupGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]GroupGrant, error) {
	docs, err := s.findGrants(ctx, collGroupGrants, bson.M{"project_id": projectID.String()})
	if err != nil {
		return nil, err
	}

	list := make([]GroupGrant, 0, len(docs))
	for _, doc := range docs {
		g, err := groupGrant(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, *g)
	}
	return list, nil
}

func (s *MongoSource) findGrants(ctx context.Context, coll string, filter bson.M) ([]grantDoc, error) {
	cursor, err := s.db.Collection(coll).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("fetch grants: %w", err)
	}

	var docs []grantDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode grants: %w", err)
	}
	return docs, nil
}

func readShapes(docs []grantDoc) []Grant {
	if len(docs) == 0 {
		return nil
	}
	grants := make([]Grant, 0, len(docs))
	for _, doc := range docs {
		grants = append(grants, Grant{Admin: doc.Admin, Keys: toKeys(doc.Keys)})
	}
	return grants
}

func userGrant(doc grantDoc) (*UserGrant, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse grant id: %w", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse grant user id: %w", err)
	}
	projectID, err := uuid.Parse(doc.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("parse grant project id: %w", err)
	}

	return &UserGrant{
		ID:        id,
		UserID:    userID,
		ProjectID: projectID,
		Admin:     doc.Admin,
		Keys:      toKeys(doc.Keys),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func groupGrant(doc grantDoc) (*GroupGrant, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse grant id: %w", err)
	}
	groupID, err := uuid.Parse(doc.GroupID)
	if err != nil {
		return nil, fmt.Errorf("parse grant group id: %w", err)
	}
	projectID, err := uuid.Parse(doc.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("parse grant project id: %w", err)
	}

	return &GroupGrant{
		ID:        id,
		GroupID:   groupID,
		ProjectID: projectID,
		Admin:     doc.Admin,
		Keys:      toKeys(doc.Keys),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

var (
	_ MembershipSource = (*MongoSource)(nil)
	_ GrantStore       = (*MongoSource)(nil)
)

package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillshare/backend/internal/models"
)

type MongoProfileService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
	timeout     time.Duration
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string, timeout time.Duration) (*MongoProfileService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("profiles")

	// Best-effort indexes. The unique uid index is what makes concurrent
	// creates for the same identity safe; everything else is query speed.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "skills", Value: 1}}},
		{Keys: bson.D{{Key: "availability", Value: 1}}},
		{Keys: bson.D{{Key: "university", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "display_name", Value: "text"}, {Key: "bio", Value: "text"}}},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return &MongoProfileService{
		client:      client,
		db:          db,
		profilesCol: col,
		timeout:     timeout,
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type profileDoc struct {
	ID           string          `bson:"_id"`
	UID          string          `bson:"uid"`
	Email        string          `bson:"email,omitempty"`
	DisplayName  string          `bson:"display_name"`
	PhotoURL     string          `bson:"photo_url,omitempty"`
	Bio          string          `bson:"bio,omitempty"`
	Skills       []string        `bson:"skills"`
	Interests    []string        `bson:"interests,omitempty"`
	Availability []string        `bson:"availability,omitempty"`
	University   string          `bson:"university,omitempty"`
	Year         string          `bson:"year,omitempty"`
	ContactInfo  *contactInfoDoc `bson:"contact_info,omitempty"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

type contactInfoDoc struct {
	Email       string              `bson:"email,omitempty"`
	Phone       string              `bson:"phone,omitempty"`
	Social      map[string]string   `bson:"social,omitempty"` // legacy fixed-key shape, read-only
	SocialLinks []models.SocialLink `bson:"social_links,omitempty"`
}

func profileDocFrom(contact *models.ContactInfo) *contactInfoDoc {
	if contact == nil {
		return nil
	}
	return &contactInfoDoc{
		Email:       contact.Email,
		Phone:       contact.Phone,
		SocialLinks: contact.SocialLinks,
	}
}

func docToProfile(d profileDoc) *models.Profile {
	p := &models.Profile{
		ID:           d.ID,
		UID:          d.UID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PhotoURL:     d.PhotoURL,
		Bio:          d.Bio,
		Skills:       d.Skills,
		Interests:    d.Interests,
		Availability: d.Availability,
		University:   d.University,
		Year:         d.Year,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Availability == nil {
		p.Availability = []string{}
	}
	if d.ContactInfo != nil {
		p.ContactInfo = &models.ContactInfo{
			Email:       d.ContactInfo.Email,
			Phone:       d.ContactInfo.Phone,
			SocialLinks: mergeLegacySocial(d.ContactInfo.SocialLinks, d.ContactInfo.Social),
		}
	}
	return p
}

// legacySocialOrder fixes the merge order for documents written before
// social_links existed.
var legacySocialOrder = []string{"linkedin", "github", "twitter", "instagram", "whatsapp"}

// mergeLegacySocial folds old fixed-key social documents into the
// canonical ordered list, keeping any real social_links entries first.
func mergeLegacySocial(links []models.SocialLink, legacy map[string]string) []models.SocialLink {
	if len(legacy) == 0 {
		return links
	}
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		seen[strings.ToLower(l.Platform)] = true
	}
	for _, platform := range legacySocialOrder {
		url := strings.TrimSpace(legacy[platform])
		if url == "" || seen[platform] {
			continue
		}
		links = append(links, models.SocialLink{ID: platform, Platform: platform, URL: url})
	}
	return links
}

// publicProjection hides private contact fields at the query layer so no
// public read path can forget to redact them.
func publicProjection(searching bool) bson.M {
	proj := bson.M{
		"contact_info.email": 0,
		"contact_info.phone": 0,
	}
	if searching {
		proj["score"] = bson.M{"$meta": "textScore"}
	}
	return proj
}

func (s *MongoProfileService) Create(ctx context.Context, uid, email string, req *models.CreateProfileRequest) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := profileDoc{
		ID:           uuid.New().String(),
		UID:          uid,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  req.DisplayName,
		PhotoURL:     req.PhotoURL,
		Bio:          req.Bio,
		Skills:       req.Skills,
		Interests:    req.Interests,
		Availability: req.Availability,
		University:   req.University,
		Year:         req.Year,
		ContactInfo:  profileDocFrom(req.ContactInfo.Normalize()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.profilesCol.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrProfileExists
		}
		return nil, mapStoreError(err)
	}
	return docToProfile(doc), nil
}

func (s *MongoProfileService) GetByUID(ctx context.Context, uid string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc profileDoc
	if err := s.profilesCol.FindOne(ctx, bson.M{"uid": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Having no profile yet is a normal state, not a failure.
			return nil, nil
		}
		return nil, mapStoreError(err)
	}
	return docToProfile(doc), nil
}

func (s *MongoProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc profileDoc
	err := s.profilesCol.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(publicProjection(false))).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, mapStoreError(err)
	}
	return docToProfile(doc), nil
}

func (s *MongoProfileService) Update(ctx context.Context, uid, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "uid": uid},
		profileUpdate(req),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated profileDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.notFoundOrNotOwner(ctx, id)
		}
		return nil, mapStoreError(err)
	}
	return docToProfile(updated), nil
}

func (s *MongoProfileService) Delete(ctx context.Context, uid, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.profilesCol.DeleteOne(ctx, bson.M{"_id": id, "uid": uid})
	if err != nil {
		return mapStoreError(err)
	}
	if res.DeletedCount == 0 {
		return s.notFoundOrNotOwner(ctx, id)
	}
	return nil
}

// profileUpdate builds the patch document: only provided fields are $set,
// updated_at always refreshes. Writes always use the canonical contact
// shape; the legacy social field is dropped once contact info is rewritten,
// and contact info that normalizes to empty is removed entirely rather
// than written as null.
func profileUpdate(req *models.UpdateProfileRequest) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.DisplayName != nil {
		set["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.PhotoURL != nil {
		set["photo_url"] = *req.PhotoURL
	}
	if req.Skills != nil {
		set["skills"] = *req.Skills
	}
	if req.Interests != nil {
		set["interests"] = *req.Interests
	}
	if req.Availability != nil {
		set["availability"] = *req.Availability
	}
	if req.University != nil {
		set["university"] = *req.University
	}
	if req.Year != nil {
		set["year"] = *req.Year
	}

	update := bson.M{"$set": set}
	if req.ContactInfo != nil {
		if contact := profileDocFrom(req.ContactInfo.Normalize()); contact != nil {
			set["contact_info"] = contact
		} else {
			update["$unset"] = bson.M{"contact_info": ""}
		}
	}
	return update
}

// notFoundOrNotOwner distinguishes a missing profile from one owned by
// someone else after an ownership-filtered write matched nothing.
func (s *MongoProfileService) notFoundOrNotOwner(ctx context.Context, id string) error {
	err := s.profilesCol.FindOne(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrProfileNotFound
	}
	if err != nil {
		return mapStoreError(err)
	}
	return ErrNotProfileOwner
}

func (s *MongoProfileService) Search(ctx context.Context, filters models.SearchFilters, page, limit int) ([]models.Profile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := searchQuery(filters)

	findOpts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(searchSort(filters)).
		SetProjection(publicProjection(filters.SearchTerm != ""))

	cursor, err := s.profilesCol.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	for cursor.Next(ctx) {
		var doc profileDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, mapStoreError(err)
		}
		profiles = append(profiles, *docToProfile(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, mapStoreError(err)
	}

	total, err := s.profilesCol.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return profiles, total, nil
}

// searchQuery builds the conjunctive filter: every provided dimension
// must match, empty dimensions impose no constraint.
func searchQuery(f models.SearchFilters) bson.M {
	query := bson.M{}
	if len(f.Skills) > 0 {
		query["skills"] = bson.M{"$in": f.Skills}
	}
	if len(f.Availability) > 0 {
		query["availability"] = bson.M{"$in": f.Availability}
	}
	if f.University != "" {
		query["university"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.University), Options: "i"}
	}
	if f.Year != "" {
		query["year"] = f.Year
	}
	if f.SearchTerm != "" {
		query["$text"] = bson.M{"$search": f.SearchTerm}
	}
	return query
}

// searchSort orders by text relevance when searching, newest-first otherwise.
func searchSort(f models.SearchFilters) bson.D {
	if f.SearchTerm != "" {
		return bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	}
	return bson.D{{Key: "created_at", Value: -1}}
}

func mapStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return ErrUnavailable
	}
	return err
}

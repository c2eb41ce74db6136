package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillshare/backend/internal/models"
)

type MongoCatalogService struct {
	client        *mongo.Client
	db            *mongo.Database
	skillsCol     *mongo.Collection
	categoriesCol *mongo.Collection
	timeout       time.Duration
}

func NewMongoCatalogService(ctx context.Context, mongoURI, dbName string, timeout time.Duration) (*MongoCatalogService, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	skills := db.Collection("skills")
	categories := db.Collection("skill_categories")

	// Best-effort indexes.
	_, _ = skills.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "level", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
	})
	_, _ = categories.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
	})

	log.Printf("MongoDB catalog connected: db=%s", dbName)
	return &MongoCatalogService{
		client:        client,
		db:            db,
		skillsCol:     skills,
		categoriesCol: categories,
		timeout:       timeout,
	}, nil
}

func (s *MongoCatalogService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type skillDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Category    string    `bson:"category"`
	Level       string    `bson:"level"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type categoryDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func docToSkill(d skillDoc) *models.Skill {
	return &models.Skill{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		Level:       d.Level,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func docToCategory(d categoryDoc) *models.SkillCategory {
	return &models.SkillCategory{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// skillListQuery builds the filter for GET /api/skills.
func skillListQuery(q models.SkillListQuery) bson.M {
	query := bson.M{}
	if q.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Category), Options: "i"}
	}
	if q.Level != "" {
		query["level"] = q.Level
	}
	if q.Search != "" {
		query["$text"] = bson.M{"$search": q.Search}
	}
	return query
}

func catalogSort(searching bool) bson.D {
	if searching {
		return bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	}
	return bson.D{{Key: "name", Value: 1}}
}

func (s *MongoCatalogService) ListSkills(ctx context.Context, q models.SkillListQuery, page, limit int) ([]models.Skill, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := skillListQuery(q)
	findOpts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(catalogSort(q.Search != ""))

	cursor, err := s.skillsCol.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer cursor.Close(ctx)

	skills := []models.Skill{}
	for cursor.Next(ctx) {
		var doc skillDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, mapStoreError(err)
		}
		skills = append(skills, *docToSkill(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, mapStoreError(err)
	}

	total, err := s.skillsCol.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return skills, total, nil
}

func (s *MongoCatalogService) CreateSkill(ctx context.Context, req *models.CreateSkillRequest) (*models.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := skillDoc{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Category:    req.Category,
		Level:       req.Level,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.skillsCol.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSkillExists
		}
		return nil, mapStoreError(err)
	}
	return docToSkill(doc), nil
}

func (s *MongoCatalogService) GetSkill(ctx context.Context, id string) (*models.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc skillDoc
	if err := s.skillsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSkillNotFound
		}
		return nil, mapStoreError(err)
	}
	return docToSkill(doc), nil
}

func (s *MongoCatalogService) ListCategories(ctx context.Context, search string, page, limit int) ([]models.SkillCategory, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := bson.M{}
	if search != "" {
		query["$text"] = bson.M{"$search": search}
	}
	findOpts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(catalogSort(search != ""))

	cursor, err := s.categoriesCol.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer cursor.Close(ctx)

	categories := []models.SkillCategory{}
	for cursor.Next(ctx) {
		var doc categoryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, mapStoreError(err)
		}
		categories = append(categories, *docToCategory(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, mapStoreError(err)
	}

	total, err := s.categoriesCol.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return categories, total, nil
}

func (s *MongoCatalogService) CreateCategory(ctx context.Context, req *models.CreateSkillCategoryRequest) (*models.SkillCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := categoryDoc{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.categoriesCol.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryExists
		}
		return nil, mapStoreError(err)
	}
	return docToCategory(doc), nil
}

func (s *MongoCatalogService) GetCategory(ctx context.Context, id string) (*models.SkillCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc categoryDoc
	if err := s.categoriesCol.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, mapStoreError(err)
	}
	return docToCategory(doc), nil
}

// defaultSkills and defaultCategories are the stock catalog loaded on
// first-time initialization.
var defaultSkills = []models.CreateSkillRequest{
	{Name: "JavaScript", Category: "Programming", Level: models.SkillLevelIntermediate, Description: "Web development with JavaScript"},
	{Name: "React", Category: "Programming", Level: models.SkillLevelIntermediate, Description: "React library for building user interfaces"},
	{Name: "Python", Category: "Programming", Level: models.SkillLevelIntermediate, Description: "Python programming language"},
	{Name: "Machine Learning", Category: "Data Science", Level: models.SkillLevelAdvanced, Description: "Machine learning algorithms and techniques"},
	{Name: "Design", Category: "Creative", Level: models.SkillLevelIntermediate, Description: "UI/UX design principles"},
	{Name: "Photography", Category: "Creative", Level: models.SkillLevelBeginner, Description: "Digital photography techniques"},
	{Name: "Public Speaking", Category: "Communication", Level: models.SkillLevelIntermediate, Description: "Effective public speaking skills"},
	{Name: "Writing", Category: "Communication", Level: models.SkillLevelIntermediate, Description: "Technical and creative writing"},
	{Name: "Mathematics", Category: "Academic", Level: models.SkillLevelAdvanced, Description: "Advanced mathematics and statistics"},
	{Name: "Languages", Category: "Communication", Level: models.SkillLevelIntermediate, Description: "Foreign language proficiency"},
}

var defaultCategories = []models.CreateSkillCategoryRequest{
	{Name: "Programming", Description: "Software development and coding"},
	{Name: "Data Science", Description: "Data analysis and machine learning"},
	{Name: "Creative", Description: "Art, design, and creative skills"},
	{Name: "Communication", Description: "Speaking, writing, and language skills"},
	{Name: "Academic", Description: "Academic subjects and research"},
	{Name: "Business", Description: "Business and entrepreneurship skills"},
	{Name: "Technical", Description: "Technical and engineering skills"},
}

func (s *MongoCatalogService) SeedDefaults(ctx context.Context) (*models.SeedResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := &models.SeedResult{}
	now := time.Now().UTC()

	skillsCount, err := s.skillsCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, mapStoreError(err)
	}
	if skillsCount == 0 {
		docs := make([]interface{}, 0, len(defaultSkills))
		for _, sk := range defaultSkills {
			docs = append(docs, skillDoc{
				ID:          uuid.New().String(),
				Name:        sk.Name,
				Category:    sk.Category,
				Level:       sk.Level,
				Description: sk.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if _, err := s.skillsCol.InsertMany(ctx, docs); err != nil {
			return nil, mapStoreError(err)
		}
		result.SkillsCreated = len(docs)
	}

	categoriesCount, err := s.categoriesCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, mapStoreError(err)
	}
	if categoriesCount == 0 {
		docs := make([]interface{}, 0, len(defaultCategories))
		for _, c := range defaultCategories {
			docs = append(docs, categoryDoc{
				ID:          uuid.New().String(),
				Name:        c.Name,
				Description: c.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if _, err := s.categoriesCol.InsertMany(ctx, docs); err != nil {
			return nil, mapStoreError(err)
		}
		result.CategoriesCreated = len(docs)
	}

	if result.TotalSkills, err = s.skillsCol.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, mapStoreError(err)
	}
	if result.TotalCategories, err = s.categoriesCol.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, mapStoreError(err)
	}
	return result, nil
}

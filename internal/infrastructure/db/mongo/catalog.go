package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roadproximity/proximity/internal/core/domain"
	"github.com/roadproximity/proximity/internal/core/ports"
)

const collectionReferencePoints = "reference_points"

// referencePointDoc is the stored shape of a reference point.
type referencePointDoc struct {
	RoadName string          `bson:"road_name"`
	Label    string          `bson:"label,omitempty"`
	Location domain.GeoPoint `bson:"location"`
}

func (d referencePointDoc) toDomain() domain.ReferencePoint {
	return domain.ReferencePoint{RoadName: d.RoadName, Location: d.Location}
}

// Catalog serves reference points keyed by road name from MongoDB.
type Catalog struct {
	col *mongo.Collection
}

var _ ports.PointSource = (*Catalog)(nil)

func NewCatalog(db *mongo.Database) *Catalog {
	return &Catalog{col: db.Collection(collectionReferencePoints)}
}

func (c *Catalog) Name() string { return "mongo" }

// PointsForRoad returns every point recorded for q.RoadName. A road with no
// points yields an empty slice.
func (c *Catalog) PointsForRoad(ctx context.Context, q ports.PointQuery) ([]domain.ReferencePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := c.col.Find(ctx, roadFilter(q.RoadName))
	if err != nil {
		return nil, fmt.Errorf("find reference points: %w", err)
	}
	defer cur.Close(ctx)

	var docs []referencePointDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reference points: %w", err)
	}

	points := make([]domain.ReferencePoint, 0, len(docs))
	for _, d := range docs {
		points = append(points, d.toDomain())
	}
	return points, nil
}

// Insert adds reference points to the catalog.
func (c *Catalog) Insert(ctx context.Context, points ...domain.ReferencePoint) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]any, len(points))
	for i, p := range points {
		docs[i] = referencePointDoc{RoadName: p.RoadName, Location: p.Location}
	}
	if _, err := c.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert reference points: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts points when the collection holds no documents and
// reports how many were inserted. A populated catalog is left as is.
func (c *Catalog) SeedIfEmpty(ctx context.Context, points ...domain.ReferencePoint) (int, error) {
	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	n, err := c.col.EstimatedDocumentCount(countCtx)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("count reference points: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	if err := c.Insert(ctx, points...); err != nil {
		return 0, err
	}
	return len(points), nil
}

// EnsureIndexes creates the road_name index used by PointsForRoad.
func (c *Catalog) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "road_name", Value: 1}},
	})
	return err
}

func roadFilter(roadName string) bson.M {
	return bson.M{"road_name": roadName}
}

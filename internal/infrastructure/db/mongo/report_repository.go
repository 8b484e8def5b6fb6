package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicmap/civic-reports/internal/core/domain"
)

const reportsCollection = "reports"

type ReportRepository struct {
	coll *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{coll: db.Collection(reportsCollection)}
}

// geoPoint is a GeoJSON point; GeoJSON orders coordinates [lng, lat].
type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

type mongoReport struct {
	ID              string     `bson:"_id"`
	Title           string     `bson:"title"`
	Description     string     `bson:"description"`
	ReportType      string     `bson:"report_type"`
	Status          string     `bson:"status"`
	Location        geoPoint   `bson:"location"`
	CreationTime    time.Time  `bson:"creation_time"`
	LastUpdatedTime *time.Time `bson:"last_updated_time,omitempty"`
}

func toMongoReport(rep *domain.Report) mongoReport {
	return mongoReport{
		ID:              rep.ID.String(),
		Title:           rep.Title,
		Description:     rep.Description,
		ReportType:      string(rep.ReportType),
		Status:          string(rep.Status),
		Location:        geoPoint{Type: "Point", Coordinates: [2]float64{rep.Location.Lng, rep.Location.Lat}},
		CreationTime:    rep.CreationTime.UTC(),
		LastUpdatedTime: rep.LastUpdatedTime,
	}
}

func (mr mongoReport) toDomain() (*domain.Report, error) {
	id, err := uuid.Parse(mr.ID)
	if err != nil {
		return nil, fmt.Errorf("parse report id %q: %w", mr.ID, err)
	}
	return &domain.Report{
		ID:              id,
		Title:           mr.Title,
		Description:     mr.Description,
		ReportType:      domain.ReportType(mr.ReportType),
		Status:          domain.ReportStatus(mr.Status),
		Location:        domain.Coordinates{Lat: mr.Location.Coordinates[1], Lng: mr.Location.Coordinates[0]},
		CreationTime:    mr.CreationTime.UTC(),
		LastUpdatedTime: mr.LastUpdatedTime,
	}, nil
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	if _, err := r.coll.InsertOne(ctx, toMongoReport(report)); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	var mr mongoReport
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return mr.toDomain()
}

// FindInBounds returns reports whose location falls inside the lat/lng box,
// using the 2dsphere index.
func (r *ReportRepository) FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Report, error) {
	polygon := [][][2]float64{{
		{box.MinLng, box.MinLat},
		{box.MaxLng, box.MinLat},
		{box.MaxLng, box.MaxLat},
		{box.MinLng, box.MaxLat},
		{box.MinLng, box.MinLat},
	}}
	filter := bson.M{"location": bson.M{"$geoWithin": bson.M{"$geometry": bson.M{
		"type":        "Polygon",
		"coordinates": polygon,
	}}}}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find reports in bounds: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []domain.Report
	for cursor.Next(ctx) {
		var mr mongoReport
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		rep, err := mr.toDomain()
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, cursor.Err()
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": report.ID.String()}, toMongoReport(report))
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReportStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

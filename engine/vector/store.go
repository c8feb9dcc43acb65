// Package vector implements the Vector Store Adapter (spec §4.I) over
// Qdrant: collection provisioning with payload indexes, replace-on-write
// upserts keyed by uid, and filtered cosine-similarity search.
package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/metrics"
)

// DefaultVectorSize is the VECTOR_SIZE default (spec §6).
const DefaultVectorSize = 384

// keywordIndexFields and integerIndexFields are the payload indexes the
// collection must carry (spec §4.I/§6).
var keywordIndexFields = []string{"uid", "name", "source", "email", "skills", "companies", "role", "location"}
var integerIndexFields = []string{"years_experience"}

// Store is the sole owner of all Qdrant operations for resume vectors.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dims        int
	skipped     *metrics.Counter
}

// New dials Qdrant at addr (host:port gRPC) and binds to collection. reg may
// be nil; when set, dimension-mismatch skips are counted on it.
func New(addr, collection string, dims int, reg *metrics.Registry) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("vector: dial qdrant %s: %w", addr, err)
	}
	var skipped *metrics.Counter
	if reg != nil {
		skipped = reg.Counter("resume_vector_dimension_mismatch_total", "embedding points skipped due to a vector dimension mismatch")
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		dims:        dims,
		skipped:     skipped,
	}, nil
}

// NewWithClients builds a Store around already-constructed Qdrant clients,
// bypassing the gRPC dial. Used in tests to inject mock PointsClient/
// CollectionsClient implementations.
func NewWithClients(points pb.PointsClient, collections pb.CollectionsClient, collection string, dims int, reg *metrics.Registry) *Store {
	var skipped *metrics.Counter
	if reg != nil {
		skipped = reg.Counter("resume_vector_dimension_mismatch_total", "embedding points skipped due to a vector dimension mismatch")
	}
	return &Store{
		points:      points,
		collections: collections,
		collection:  collection,
		dims:        dims,
		skipped:     skipped,
	}
}

// Close closes the underlying gRPC connection. A Store built via
// NewWithClients has no connection to close.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// EnsureCollection creates the collection (cosine distance, configured
// dimension) and its required payload indexes if they don't already exist.
func (s *Store) EnsureCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return domain.NewStoreUnavailable("vector.EnsureCollection", s.collection, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	if _, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(s.dims),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return domain.NewStoreUnavailable("vector.EnsureCollection", s.collection, err)
	}

	for _, field := range keywordIndexFields {
		if err := s.createIndex(ctx, field, pb.FieldType_FieldTypeKeyword); err != nil {
			return err
		}
	}
	for _, field := range integerIndexFields {
		if err := s.createIndex(ctx, field, pb.FieldType_FieldTypeInteger); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createIndex(ctx context.Context, field string, fieldType pb.FieldType) error {
	wait := true
	ft := fieldType
	_, err := s.points.CreateFieldIndex(ctx, &pb.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      field,
		FieldType:      &ft,
		Wait:           &wait,
	})
	if err != nil {
		return domain.NewStoreUnavailable("vector.EnsureCollection", field, err)
	}
	return nil
}

// StoreVectors deletes every existing point whose payload uid matches, then
// upserts points, a fresh UUID per point. Points whose vector dimension
// does not match the configured size are skipped (counted in metrics, not
// an error) per spec §4.I. Returns the ids of the points actually written.
func (s *Store) StoreVectors(ctx context.Context, uid string, points []domain.EmbeddingPoint) ([]string, error) {
	if err := s.deleteByUID(ctx, uid); err != nil {
		return nil, domain.NewStoreUnavailable("vector.StoreVectors", uid, err)
	}

	var pbPoints []*pb.PointStruct
	var ids []string
	for i := range points {
		p := points[i]
		if len(p.Vector) != s.dims {
			if s.skipped != nil {
				s.skipped.Inc()
			}
			continue
		}
		id := uuid.NewString()
		ids = append(ids, id)
		pbPoints = append(pbPoints, toPointStruct(id, uid, p))
	}
	if len(pbPoints) == 0 {
		return ids, nil
	}

	wait := true
	if _, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         pbPoints,
	}); err != nil {
		return nil, domain.NewStoreUnavailable("vector.StoreVectors", uid, err)
	}
	return ids, nil
}

// DeleteResumeVectors removes every point tagged with uid and returns how
// many were deleted.
func (s *Store) DeleteResumeVectors(ctx context.Context, uid string) (int, error) {
	count, err := s.countByUID(ctx, uid)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	if err := s.deleteByUID(ctx, uid); err != nil {
		return 0, domain.NewStoreUnavailable("vector.DeleteResumeVectors", uid, err)
	}
	return count, nil
}

func (s *Store) countByUID(ctx context.Context, uid string) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
		Filter:         &pb.Filter{Must: []*pb.Condition{fieldMatchKeyword("uid", uid)}},
		Exact:          &exact,
	})
	if err != nil {
		return 0, domain.NewStoreUnavailable("vector.countByUID", uid, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

func (s *Store) deleteByUID(ctx context.Context, uid string) error {
	wait := true
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{Must: []*pb.Condition{fieldMatchKeyword("uid", uid)}},
			},
		},
	})
	return err
}

// Search performs unfiltered cosine-similarity search.
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int, minScore float32) ([]SearchHit, error) {
	return s.SearchFiltered(ctx, queryVector, limit, minScore, nil)
}

// SearchFiltered performs cosine-similarity search narrowed by filter.
func (s *Store) SearchFiltered(ctx context.Context, queryVector []float32, limit int, minScore float32, filter *Filter) ([]SearchHit, error) {
	req := &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if minScore > 0 {
		ms := minScore
		req.ScoreThreshold = &ms
	}
	if filter != nil {
		var must []*pb.Condition
		for k, v := range filter.Keyword {
			must = append(must, fieldMatchKeyword(k, v))
		}
		if filter.MinYearsExperience != nil {
			must = append(must, fieldGte("years_experience", float64(*filter.MinYearsExperience)))
		}
		if len(must) > 0 {
			req.Filter = &pb.Filter{Must: must}
		}
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, domain.NewStoreUnavailable("vector.Search", s.collection, err)
	}

	hits := make([]SearchHit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		hits[i] = hitFromScoredPoint(r)
	}
	return hits, nil
}

func fieldMatchKeyword(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   key,
				Match: &pb.Match{MatchValue: &pb.Match_Keyword{Keyword: value}},
			},
		},
	}
}

func fieldGte(key string, v float64) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key:   key,
				Range: &pb.Range{Gte: &v},
			},
		},
	}
}

package vector

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/resumariner/engine/engine/domain"
)

type mockPoints struct {
	pb.PointsClient
	upsertResp *pb.PointsOperationResponse
	upsertErr  error
	deleteResp *pb.PointsOperationResponse
	deleteErr  error
	searchResp *pb.SearchResponse
	searchErr  error
	countResp  *pb.CountResponse
	countErr   error
	indexErr   error
}

func (m *mockPoints) Upsert(_ context.Context, _ *pb.UpsertPoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	return m.upsertResp, m.upsertErr
}
func (m *mockPoints) Delete(_ context.Context, _ *pb.DeletePoints, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	return m.deleteResp, m.deleteErr
}
func (m *mockPoints) Search(_ context.Context, _ *pb.SearchPoints, _ ...grpc.CallOption) (*pb.SearchResponse, error) {
	return m.searchResp, m.searchErr
}
func (m *mockPoints) Count(_ context.Context, _ *pb.CountPoints, _ ...grpc.CallOption) (*pb.CountResponse, error) {
	return m.countResp, m.countErr
}
func (m *mockPoints) CreateFieldIndex(_ context.Context, _ *pb.CreateFieldIndexCollection, _ ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	return &pb.PointsOperationResponse{}, m.indexErr
}

type mockCollections struct {
	pb.CollectionsClient
	listResp  *pb.ListCollectionsResponse
	listErr   error
	createErr error
}

func (m *mockCollections) List(_ context.Context, _ *pb.ListCollectionsRequest, _ ...grpc.CallOption) (*pb.ListCollectionsResponse, error) {
	return m.listResp, m.listErr
}
func (m *mockCollections) Create(_ context.Context, _ *pb.CreateCollection, _ ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	return &pb.CollectionOperationResponse{}, m.createErr
}

func TestEnsureCollectionAlreadyExists(t *testing.T) {
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{
		Collections: []*pb.CollectionDescription{{Name: "resumes"}},
	}}
	s := NewWithClients(&mockPoints{}, cols, "resumes", 384, nil)
	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureCollectionCreatesWithIndexes(t *testing.T) {
	cols := &mockCollections{listResp: &pb.ListCollectionsResponse{}}
	s := NewWithClients(&mockPoints{}, cols, "resumes", 384, nil)
	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureCollectionListError(t *testing.T) {
	cols := &mockCollections{listErr: errors.New("rpc fail")}
	s := NewWithClients(&mockPoints{}, cols, "resumes", 384, nil)
	if err := s.EnsureCollection(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStoreVectorsSkipsDimensionMismatch(t *testing.T) {
	pts := &mockPoints{
		countResp:  &pb.CountResponse{Result: &pb.CountResult{Count: 0}},
		deleteResp: &pb.PointsOperationResponse{},
		upsertResp: &pb.PointsOperationResponse{},
	}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)

	points := []domain.EmbeddingPoint{
		{Text: "good", Vector: make([]float32, 384)},
		{Text: "bad", Vector: make([]float32, 10)},
	}
	ids, err := s.StoreVectors(context.Background(), "uid-1", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 id (one point skipped for dimension mismatch), got %d", len(ids))
	}
}

func TestStoreVectorsDeleteError(t *testing.T) {
	pts := &mockPoints{deleteErr: errors.New("fail")}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)
	if _, err := s.StoreVectors(context.Background(), "uid-1", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteResumeVectorsZeroCountSkipsDelete(t *testing.T) {
	pts := &mockPoints{countResp: &pb.CountResponse{Result: &pb.CountResult{Count: 0}}}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)
	count, err := s.DeleteResumeVectors(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestDeleteResumeVectorsDeletesWhenPresent(t *testing.T) {
	pts := &mockPoints{
		countResp:  &pb.CountResponse{Result: &pb.CountResult{Count: 3}},
		deleteResp: &pb.PointsOperationResponse{},
	}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)
	count, err := s.DeleteResumeVectors(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestSearchFilteredBuildsPayloadAndFilter(t *testing.T) {
	pts := &mockPoints{
		searchResp: &pb.SearchResponse{
			Result: []*pb.ScoredPoint{
				{
					Id:    &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: "p1"}},
					Score: 0.8,
					Payload: map[string]*pb.Value{
						"uid":              {Kind: &pb.Value_StringValue{StringValue: "uid-1"}},
						"text":             {Kind: &pb.Value_StringValue{StringValue: "built scalable Go services"}},
						"source":           {Kind: &pb.Value_StringValue{StringValue: "summary"}},
						"skills":           listValue([]string{"Go", "Redis"}),
						"years_experience": {Kind: &pb.Value_IntegerValue{IntegerValue: 5}},
					},
				},
			},
		},
	}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)

	minYears := 3
	hits, err := s.SearchFiltered(context.Background(), make([]float32, 384), 10, 0.5, &Filter{
		Keyword:            map[string]string{"role": "backend"},
		MinYearsExperience: &minYears,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if h.UID != "uid-1" || h.Score != 0.8 {
		t.Fatalf("unexpected hit: %+v", h)
	}
	if len(h.Skills) != 2 || h.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", h.Skills)
	}
	if h.YearsExperience != 5 {
		t.Fatalf("expected years_experience 5, got %d", h.YearsExperience)
	}
}

func TestSearchError(t *testing.T) {
	pts := &mockPoints{searchErr: errors.New("fail")}
	s := NewWithClients(pts, &mockCollections{}, "resumes", 384, nil)
	if _, err := s.Search(context.Background(), make([]float32, 384), 10, 0); err == nil {
		t.Fatal("expected error")
	}
}

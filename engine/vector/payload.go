package vector

import (
	pb "github.com/qdrant/go-client/qdrant"

	"github.com/resumariner/engine/engine/domain"
)

// toPointStruct builds a Qdrant point from an EmbeddingPoint, tagging every
// payload with uid as the join key (spec §4.I/§6).
func toPointStruct(id, uid string, p domain.EmbeddingPoint) *pb.PointStruct {
	payload := map[string]*pb.Value{
		"uid":    strValue(uid),
		"text":   strValue(p.Text),
		"source": strValue(string(p.Source)),
	}
	if p.Context != "" {
		payload["context"] = strValue(p.Context)
	}
	if p.Name != "" {
		payload["name"] = strValue(p.Name)
	}
	if p.Email != "" {
		payload["email"] = strValue(p.Email)
	}
	if p.Role != "" {
		payload["role"] = strValue(p.Role)
	}
	if p.Location != "" {
		payload["location"] = strValue(p.Location)
	}
	if len(p.Skills) > 0 {
		payload["skills"] = listValue(p.Skills)
	}
	if len(p.Technologies) > 0 {
		payload["technologies"] = listValue(p.Technologies)
	}
	if len(p.Companies) > 0 {
		payload["companies"] = listValue(p.Companies)
	}
	if p.YearsExperience > 0 {
		payload["years_experience"] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(p.YearsExperience)}}
	}

	return &pb.PointStruct{
		Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
		Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: p.Vector}}},
		Payload: payload,
	}
}

func strValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func listValue(items []string) *pb.Value {
	values := make([]*pb.Value, len(items))
	for i, it := range items {
		values[i] = strValue(it)
	}
	return &pb.Value{Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: values}}}
}

// hitFromScoredPoint reconstructs a SearchHit from a Qdrant scored point's
// id, score, and payload.
func hitFromScoredPoint(r *pb.ScoredPoint) SearchHit {
	hit := SearchHit{
		ID:    r.GetId().GetUuid(),
		Score: r.GetScore(),
	}
	payload := r.GetPayload()
	if v, ok := payload["uid"]; ok {
		hit.UID = v.GetStringValue()
	}
	if v, ok := payload["text"]; ok {
		hit.Text = v.GetStringValue()
	}
	if v, ok := payload["source"]; ok {
		hit.Source = v.GetStringValue()
	}
	if v, ok := payload["context"]; ok {
		hit.Context = v.GetStringValue()
	}
	if v, ok := payload["name"]; ok {
		hit.Name = v.GetStringValue()
	}
	if v, ok := payload["email"]; ok {
		hit.Email = v.GetStringValue()
	}
	if v, ok := payload["role"]; ok {
		hit.Role = v.GetStringValue()
	}
	if v, ok := payload["location"]; ok {
		hit.Location = v.GetStringValue()
	}
	if v, ok := payload["skills"]; ok {
		hit.Skills = stringList(v)
	}
	if v, ok := payload["technologies"]; ok {
		hit.Technologies = stringList(v)
	}
	if v, ok := payload["companies"]; ok {
		hit.Companies = stringList(v)
	}
	if v, ok := payload["years_experience"]; ok {
		hit.YearsExperience = int(v.GetIntegerValue())
	}
	return hit
}

func stringList(v *pb.Value) []string {
	lv := v.GetListValue()
	if lv == nil {
		return nil
	}
	out := make([]string, len(lv.Values))
	for i, item := range lv.Values {
		out[i] = item.GetStringValue()
	}
	return out
}

package graph

import "context"

// LabelCounts returns node counts grouped by each node's first label.
func (g *GraphStore) LabelCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n) RETURN labels(n)[0] AS label, count(*) AS count`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		label, _ := rec.Get("label")
		count, _ := rec.Get("count")
		l, lok := label.(string)
		c, cok := count.(int64)
		if lok && cok {
			counts[l] = c
		}
	}
	return counts, nil
}

// RelationshipCounts returns relationship counts grouped by type.
func (g *GraphStore) RelationshipCounts(ctx context.Context) (map[string]int64, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		typ, _ := rec.Get("type")
		count, _ := rec.Get("count")
		t, tok := typ.(string)
		c, cok := count.(int64)
		if tok && cok {
			counts[t] = c
		}
	}
	return counts, nil
}

// ResumeCount returns the total number of resume aggregates currently
// stored.
func (g *GraphStore) ResumeCount(ctx context.Context) (int64, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH (r:`+labelResume+`) RETURN count(r) AS count`, nil)
	if err != nil {
		return 0, err
	}
	if !result.Next(ctx) {
		return 0, nil
	}
	count, _ := result.Record().Get("count")
	c, _ := count.(int64)
	return c, nil
}

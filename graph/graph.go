// Package graph mirrors follow edges into Neo4j and answers "who should I
// follow" from mutual follows. The relational store stays the source of
// truth; the graph only serves recommendations.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const relF = "FOLLOWS"

type Recommendation struct {
	Username string `json:"username"`
	Mutuals  int64  `json:"mutuals"`
}

type Graph interface {
	Follow(ctx context.Context, from, to string) error
	Unfollow(ctx context.Context, from, to string) error
	Recommend(ctx context.Context, username string, limit int) ([]Recommendation, error)
}

// Nop is used when Neo4j is not configured.
type Nop struct{}

func (Nop) Follow(context.Context, string, string) error   { return nil }
func (Nop) Unfollow(context.Context, string, string) error { return nil }
func (Nop) Recommend(context.Context, string, int) ([]Recommendation, error) {
	return nil, nil
}

type Neo4j struct {
	driver neo4j.DriverWithContext
}

func NewNeo4j(driver neo4j.DriverWithContext) *Neo4j {
	return &Neo4j{driver: driver}
}

// Connect retries until Neo4j answers or the attempts run out.
func Connect(ctx context.Context, uri, user, pass string) (neo4j.DriverWithContext, error) {
	if uri == "" || user == "" || pass == "" {
		return nil, errors.New("NEO4J env variables not set")
	}

	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 1; i <= maxRetries; i++ {
		var drv neo4j.DriverWithContext
		drv, err = neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, pass, ""))
		if err != nil {
			log.Printf("[WARN] Attempt %d: Failed to create Neo4j driver: %v", i, err)
		} else {
			vctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = drv.VerifyConnectivity(vctx)
			cancel()
			if err == nil {
				log.Println("[INFO] Neo4j connected!")
				return drv, nil
			}
			log.Printf("[WARN] Attempt %d: Neo4j not reachable: %v", i, err)
			drv.Close(ctx)
		}
		if i < maxRetries {
			log.Printf("[INFO] Retrying in %s...", retryDelay)
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("could not connect to Neo4j after %d attempts: %w", maxRetries, err)
}

func (g *Neo4j) Follow(ctx context.Context, from, to string) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MERGE (a:User {username:$from})
		MERGE (b:User {username:$to})
		MERGE (a)-[:` + relF + `]->(b)`
		_, err := tx.Run(ctx, q, map[string]any{"from": from, "to": to})
		return nil, err
	})
	return err
}

func (g *Neo4j) Unfollow(ctx context.Context, from, to string) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MATCH (:User {username:$from})-[r:` + relF + `]->(:User {username:$to})
		DELETE r`
		_, err := tx.Run(ctx, q, map[string]any{"from": from, "to": to})
		return nil, err
	})
	return err
}

// Recommend lists authors followed by the people username follows, ranked
// by how many of them do so. Already followed authors and username itself
// are excluded.
func (g *Neo4j) Recommend(ctx context.Context, username string, limit int) ([]Recommendation, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	data, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		q := `
		MATCH (me:User {username:$u})-[:` + relF + `]->(m:User)-[:` + relF + `]->(rec:User)
		WHERE NOT (me)-[:` + relF + `]->(rec) AND me <> rec
		RETURN rec.username AS username, COUNT(DISTINCT m) AS mutuals
		ORDER BY mutuals DESC, username ASC
		LIMIT $limit`
		res, err := tx.Run(ctx, q, map[string]any{"u": username, "limit": limit})
		if err != nil {
			return nil, err
		}
		recs := make([]Recommendation, 0)
		for res.Next(ctx) {
			values := res.Record().Values
			name, _ := values[0].(string)
			mutuals, _ := values[1].(int64)
			recs = append(recs, Recommendation{Username: name, Mutuals: mutuals})
		}
		return recs, res.Err()
	})
	if err != nil {
		return nil, err
	}
	recs, ok := data.([]Recommendation)
	if !ok {
		return nil, errors.New("invalid data format")
	}
	return recs, nil
}

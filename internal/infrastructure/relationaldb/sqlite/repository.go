// Package sqlite provides a SQLite implementation of the WorldStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.WorldStore using SQLite.
type Repository struct {
	db   *sqlx.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One writer at a time; this also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Game instances (root of every graph)
	CREATE TABLE IF NOT EXISTS game_instances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL DEFAULT 0,
		game_type TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		last_updated TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_game_instances_type ON game_instances(game_type, is_active);

	-- Entities (typed game objects)
	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_instance_id INTEGER NOT NULL REFERENCES game_instances(id),
		entity_type TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entities_instance ON entities(game_instance_id);

	-- Entity attributes (one value per entity and key)
	CREATE TABLE IF NOT EXISTS entity_attributes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id INTEGER NOT NULL REFERENCES entities(id),
		attr_key TEXT NOT NULL,
		attr_value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(entity_id, attr_key)
	);

	-- Entity relationships (directed typed edges)
	CREATE TABLE IF NOT EXISTS entity_relationships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_instance_id INTEGER NOT NULL REFERENCES game_instances(id),
		source_entity_id INTEGER NOT NULL REFERENCES entities(id),
		target_entity_id INTEGER NOT NULL REFERENCES entities(id),
		relationship_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(game_instance_id, source_entity_id, target_entity_id, relationship_type)
	);
	CREATE INDEX IF NOT EXISTS idx_entity_relationships_source ON entity_relationships(source_entity_id);

	-- Game states (instance-wide values)
	CREATE TABLE IF NOT EXISTS game_states (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_instance_id INTEGER NOT NULL REFERENCES game_instances(id),
		state_key TEXT NOT NULL,
		state_value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(game_instance_id, state_key)
	);

	-- Turn log (one row per completed turn)
	CREATE TABLE IF NOT EXISTS turn_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn_id TEXT NOT NULL UNIQUE,
		game_instance_id INTEGER NOT NULL REFERENCES game_instances(id),
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_turn_log_instance ON turn_log(game_instance_id, created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

type instanceRow struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	GameType    string    `db:"game_type"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	LastUpdated time.Time `db:"last_updated"`
}

func (row instanceRow) toEntity() entities.GameInstance {
	return entities.GameInstance{
		ID:          row.ID,
		UserID:      row.UserID,
		GameType:    row.GameType,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		LastUpdated: row.LastUpdated,
	}
}

type entityRow struct {
	ID             int64     `db:"id"`
	GameInstanceID int64     `db:"game_instance_id"`
	EntityType     string    `db:"entity_type"`
	Name           string    `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
}

type attributeRow struct {
	ID        int64     `db:"id"`
	EntityID  int64     `db:"entity_id"`
	Key       string    `db:"attr_key"`
	Value     string    `db:"attr_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

type relationshipRow struct {
	ID               int64     `db:"id"`
	GameInstanceID   int64     `db:"game_instance_id"`
	SourceEntityID   int64     `db:"source_entity_id"`
	TargetEntityID   int64     `db:"target_entity_id"`
	RelationshipType string    `db:"relationship_type"`
	CreatedAt        time.Time `db:"created_at"`
}

type stateRow struct {
	ID             int64     `db:"id"`
	GameInstanceID int64     `db:"game_instance_id"`
	Key            string    `db:"state_key"`
	Value          string    `db:"state_value"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const instanceColumns = `id, user_id, game_type, is_active, created_at, last_updated`

// CreateInstance creates a new active game instance.
func (r *Repository) CreateInstance(ctx context.Context, gameType string, userID int64) (*entities.GameInstance, error) {
	now := timeNow()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO game_instances (user_id, game_type, is_active, created_at, last_updated) VALUES (?, ?, 1, ?, ?)`,
		userID, gameType, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading instance id: %w", err)
	}
	return &entities.GameInstance{
		ID:          id,
		UserID:      userID,
		GameType:    gameType,
		IsActive:    true,
		CreatedAt:   now,
		LastUpdated: now,
	}, nil
}

// FindActiveInstance returns the most recent active instance of gameType.
func (r *Repository) FindActiveInstance(ctx context.Context, gameType string) (*entities.GameInstance, error) {
	var row instanceRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+instanceColumns+` FROM game_instances WHERE game_type = ? AND is_active = 1 ORDER BY id DESC LIMIT 1`,
		gameType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding active instance: %w", err)
	}
	instance := row.toEntity()
	return &instance, nil
}

// ListInstances lists all instances, newest first.
func (r *Repository) ListInstances(ctx context.Context) ([]entities.GameInstance, error) {
	var rows []instanceRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+instanceColumns+` FROM game_instances ORDER BY id DESC`); err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	result := make([]entities.GameInstance, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

// LoadInstance loads the full graph of an instance, or nil when unknown.
func (r *Repository) LoadInstance(ctx context.Context, instanceID int64) (*entities.Graph, error) {
	var inst instanceRow
	err := r.db.GetContext(ctx, &inst, `SELECT `+instanceColumns+` FROM game_instances WHERE id = ?`, instanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading instance: %w", err)
	}
	graph := entities.NewGraph(inst.toEntity())

	var entityRows []entityRow
	if err := r.db.SelectContext(ctx, &entityRows, `
		SELECT id, game_instance_id, entity_type, name, created_at
		FROM entities
		WHERE game_instance_id = ?
		ORDER BY id
	`, instanceID); err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	byID := make(map[int64]*entities.Entity, len(entityRows))
	for _, row := range entityRows {
		e := &entities.Entity{
			ID:             row.ID,
			GameInstanceID: row.GameInstanceID,
			Type:           entities.EntityType(row.EntityType),
			Name:           row.Name,
			CreatedAt:      row.CreatedAt,
			Attributes:     make(map[entities.AttributeKey]*entities.Attribute),
		}
		graph.Entities = append(graph.Entities, e)
		byID[e.ID] = e
	}

	var attrRows []attributeRow
	if err := r.db.SelectContext(ctx, &attrRows, `
		SELECT a.id, a.entity_id, a.attr_key, a.attr_value, a.updated_at
		FROM entity_attributes a
		JOIN entities e ON e.id = a.entity_id
		WHERE e.game_instance_id = ?
		ORDER BY a.id
	`, instanceID); err != nil {
		return nil, fmt.Errorf("loading attributes: %w", err)
	}
	for _, row := range attrRows {
		e, ok := byID[row.EntityID]
		if !ok {
			continue
		}
		key := entities.AttributeKey(row.Key)
		e.Attributes[key] = &entities.Attribute{
			ID:        row.ID,
			EntityID:  row.EntityID,
			Key:       key,
			Value:     json.RawMessage(row.Value),
			UpdatedAt: row.UpdatedAt,
		}
	}

	var relRows []relationshipRow
	if err := r.db.SelectContext(ctx, &relRows, `
		SELECT id, game_instance_id, source_entity_id, target_entity_id, relationship_type, created_at
		FROM entity_relationships
		WHERE game_instance_id = ?
		ORDER BY id
	`, instanceID); err != nil {
		return nil, fmt.Errorf("loading relationships: %w", err)
	}
	for _, row := range relRows {
		graph.Relationships = append(graph.Relationships, &entities.Relationship{
			ID:             row.ID,
			GameInstanceID: row.GameInstanceID,
			SourceEntityID: row.SourceEntityID,
			TargetEntityID: row.TargetEntityID,
			Type:           entities.RelationshipType(row.RelationshipType),
			CreatedAt:      row.CreatedAt,
		})
	}

	var stateRows []stateRow
	if err := r.db.SelectContext(ctx, &stateRows, `
		SELECT id, game_instance_id, state_key, state_value, updated_at
		FROM game_states
		WHERE game_instance_id = ?
		ORDER BY id
	`, instanceID); err != nil {
		return nil, fmt.Errorf("loading states: %w", err)
	}
	for _, row := range stateRows {
		graph.States = append(graph.States, &entities.GameState{
			ID:             row.ID,
			GameInstanceID: row.GameInstanceID,
			Key:            entities.StateKey(row.Key),
			Value:          json.RawMessage(row.Value),
			UpdatedAt:      row.UpdatedAt,
		})
	}

	return graph, nil
}

// Persist writes the whole graph in one transaction. Provisional entities
// are inserted and the graph is rewritten with their IDs after commit;
// attributes and states are upserted; new relationships are inserted.
func (r *Repository) Persist(ctx context.Context, graph *entities.Graph) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	instanceID := graph.Instance.ID
	res, err := tx.ExecContext(ctx,
		`UPDATE game_instances SET is_active = ?, last_updated = ? WHERE id = ?`,
		graph.Instance.IsActive, graph.Instance.LastUpdated, instanceID,
	)
	if err != nil {
		return fmt.Errorf("updating instance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("instance not found: %d", instanceID)
	}

	entityIDs := make(map[int64]int64)
	for _, e := range graph.Entities {
		if !e.IsProvisional() {
			continue
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO entities (game_instance_id, entity_type, name, created_at) VALUES (?, ?, ?, ?)`,
			instanceID, string(e.Type), e.Name, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("saving entity %s: %w", e.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading entity id: %w", err)
		}
		entityIDs[e.ID] = id
	}
	resolve := func(id int64) int64 {
		if newID, ok := entityIDs[id]; ok {
			return newID
		}
		return id
	}

	attrIDs := make(map[*entities.Attribute]int64)
	for _, e := range graph.Entities {
		for _, key := range sortedKeys(e.Attributes) {
			a := e.Attributes[key]
			var id int64
			err := tx.GetContext(ctx, &id, `
				INSERT INTO entity_attributes (entity_id, attr_key, attr_value, updated_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(entity_id, attr_key) DO UPDATE SET
					attr_value = excluded.attr_value,
					updated_at = excluded.updated_at
				RETURNING id
			`, resolve(e.ID), string(key), string(a.Value), a.UpdatedAt)
			if err != nil {
				return fmt.Errorf("saving attribute %s.%s: %w", e.Name, key, err)
			}
			attrIDs[a] = id
		}
	}

	relIDs := make(map[*entities.Relationship]int64)
	for _, rel := range graph.Relationships {
		if rel.ID != 0 {
			continue
		}
		var id int64
		err := tx.GetContext(ctx, &id, `
			INSERT INTO entity_relationships (game_instance_id, source_entity_id, target_entity_id, relationship_type, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(game_instance_id, source_entity_id, target_entity_id, relationship_type) DO UPDATE SET
				relationship_type = excluded.relationship_type
			RETURNING id
		`, instanceID, resolve(rel.SourceEntityID), resolve(rel.TargetEntityID), string(rel.Type), rel.CreatedAt)
		if err != nil {
			return fmt.Errorf("saving relationship: %w", err)
		}
		relIDs[rel] = id
	}

	stateIDs := make(map[*entities.GameState]int64)
	for _, s := range graph.States {
		var id int64
		err := tx.GetContext(ctx, &id, `
			INSERT INTO game_states (game_instance_id, state_key, state_value, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(game_instance_id, state_key) DO UPDATE SET
				state_value = excluded.state_value,
				updated_at = excluded.updated_at
			RETURNING id
		`, instanceID, string(s.Key), string(s.Value), s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("saving state %s: %w", s.Key, err)
		}
		stateIDs[s] = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	graph.RemapEntityIDs(entityIDs)
	for a, id := range attrIDs {
		a.ID = id
	}
	for rel, id := range relIDs {
		rel.ID = id
	}
	for s, id := range stateIDs {
		s.ID = id
	}
	return nil
}

func sortedKeys(attrs map[entities.AttributeKey]*entities.Attribute) []entities.AttributeKey {
	keys := make([]entities.AttributeKey, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type turnRow struct {
	ID             int64          `db:"id"`
	TurnID         string         `db:"turn_id"`
	GameInstanceID int64          `db:"game_instance_id"`
	Details        sql.NullString `db:"details"`
	CreatedAt      time.Time      `db:"created_at"`
}

// LogTurn records a completed turn.
func (r *Repository) LogTurn(ctx context.Context, entry *entities.TurnLogEntry) error {
	var details sql.NullString
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		details = sql.NullString{String: string(data), Valid: true}
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = timeNow()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO turn_log (turn_id, game_instance_id, details, created_at) VALUES (?, ?, ?, ?)`,
		entry.TurnID, entry.InstanceID, details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("logging turn: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListTurns returns the most recent turns of an instance, newest first.
func (r *Repository) ListTurns(ctx context.Context, instanceID int64, limit int) ([]entities.TurnLogEntry, error) {
	var rows []turnRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, turn_id, game_instance_id, details, created_at
		FROM turn_log
		WHERE game_instance_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, instanceID, limit); err != nil {
		return nil, fmt.Errorf("querying turn log: %w", err)
	}

	entries := make([]entities.TurnLogEntry, 0, len(rows))
	for _, row := range rows {
		entry := entities.TurnLogEntry{
			ID:         row.ID,
			TurnID:     row.TurnID,
			InstanceID: row.GameInstanceID,
			CreatedAt:  row.CreatedAt,
		}
		if row.Details.Valid && row.Details.String != "" {
			if err := json.Unmarshal([]byte(row.Details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeRedis is a map backed RedisClient.
type fakeRedis struct{ values map[string]string }

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}

// fakeCollection is a map backed Collection.
type fakeCollection struct {
	docs      map[string]string
	deleteErr error
}

func keyOf(filter any) string {
	id, _ := filter.(bson.M)["_id"].(string)
	return id
}

func (f *fakeCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
	v, ok := f.docs[keyOf(filter)]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(record{Key: keyOf(filter), Value: v}, nil, nil)
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	r := replacement.(record)
	f.docs[r.Key] = r.Value
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.docs, keyOf(filter))
	return &mongo.DeleteResult{}, nil
}

func (f *fakeCollection) DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	n := len(f.docs)
	clear(f.docs)
	return &mongo.DeleteResult{DeletedCount: int64(n)}, nil
}

func storages(t *testing.T) map[string]Storage {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewDir() unexpected error: %v", err)
	}
	return map[string]Storage{
		"memory": NewMemory(),
		"dir":    dir,
		"redis":  NewRedis(&fakeRedis{values: map[string]string{}}, "flow:"),
		"mongo":  NewMongo(&fakeCollection{docs: map[string]string{}}),
	}
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "flow_goals"); ok || err != nil {
				t.Errorf("Get(missing) = _, %v, %v want false, nil", ok, err)
			}
			if err := s.Set(ctx, "flow_goals", `[]`); err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if err := s.Set(ctx, "flow_assets", `{"cash":1}`); err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if err := s.Set(ctx, "flow_goals", `[{"id":"g"}]`); err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			v, ok, err := s.Get(ctx, "flow_goals")
			if !ok || err != nil || v != `[{"id":"g"}]` {
				t.Errorf("Get() = %q, %v, %v want %q, true, nil", v, ok, err, `[{"id":"g"}]`)
			}

			if err := s.Delete(ctx, "flow_goals"); err != nil {
				t.Fatalf("Delete() unexpected error: %v", err)
			}
			if err := s.Delete(ctx, "flow_goals"); err != nil {
				t.Errorf("Delete(missing) unexpected error: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "flow_goals"); ok {
				t.Errorf("Get(deleted) ok = true want false")
			}
			if _, ok, _ := s.Get(ctx, "flow_assets"); !ok {
				t.Errorf("Get(flow_assets) ok = false want true")
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear() unexpected error: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "flow_assets"); ok {
				t.Errorf("Get(cleared) ok = true want false")
			}
		})
	}
}

func TestInvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range storages(t) {
		for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
			if err := s.Set(ctx, key, "x"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("%s: Set(%q) error = %v want %v", name, key, err, ErrInvalidKey)
			}
		}
	}
}

func TestRedisPrefix(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{"other": "kept"}}
	r := NewRedis(client, "flow:")
	if err := r.Set(ctx, "flow_goals", "[]"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if got := client.values["flow:flow_goals"]; got != "[]" {
		t.Errorf("stored value = %q want %q", got, "[]")
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if got := client.values["other"]; got != "kept" {
		t.Errorf("Clear() removed a key outside of the prefix")
	}
}

func TestRedisWithoutPrefix(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{"session:42": "kept"}}
	r := NewRedis(client, "")
	if err := r.Clear(ctx); !errors.Is(err, ErrNoPrefix) {
		t.Errorf("Clear() error = %v want %v", err, ErrNoPrefix)
	}
	if got := client.values["session:42"]; got != "kept" {
		t.Errorf("Clear() without a prefix removed %q", "session:42")
	}
	if _, err := DialRedis(ctx, "localhost:6379", ""); !errors.Is(err, ErrNoPrefix) {
		t.Errorf("DialRedis() error = %v want %v", err, ErrNoPrefix)
	}
}

func TestMongoError(t *testing.T) {
	m := NewMongo(&fakeCollection{docs: map[string]string{}, deleteErr: errors.New("boom")})
	if err := m.Delete(context.Background(), "flow_goals"); err == nil {
		t.Errorf("Delete() error = nil want an error")
	}
}

func TestDirClearKeepsOtherFiles(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()
	d, err := NewDir(path)
	if err != nil {
		t.Fatalf("NewDir() unexpected error: %v", err)
	}
	other := filepath.Join(path, "notes.txt")
	if err := os.WriteFile(other, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(ctx, "flow_goals", "[]"); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "flow_goals.json")); err != nil {
		t.Errorf("value file not found: %v", err)
	}
	if err := d.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("Clear() removed %q", other)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		options Options
		wantErr bool
	}{
		{name: "memory", options: Options{Driver: DriverMemory}},
		{name: "dir", options: Options{Driver: DriverDir, Dir: t.TempDir()}},
		{name: "default", options: Options{Dir: t.TempDir()}},
		{name: "dir without path", options: Options{Driver: DriverDir}, wantErr: true},
		{name: "redis without address", options: Options{Driver: DriverRedis}, wantErr: true},
		{name: "mongo without uri", options: Options{Driver: DriverMongo}, wantErr: true},
		{name: "unknown", options: Options{Driver: "sqlite"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

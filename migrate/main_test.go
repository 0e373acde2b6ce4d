package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/store"
)

func TestParseStorage(t *testing.T) {
	for _, test := range []struct {
		desc    string
		want    store.Options
		wantErr bool
	}{
		{desc: "dir:.flow", want: store.Options{Driver: store.DriverDir, Dir: ".flow", RedisPrefix: "flow:"}},
		{desc: "redis:localhost:6379", want: store.Options{Driver: store.DriverRedis, RedisAddr: "localhost:6379", RedisPrefix: "flow:"}},
		{desc: "mongo:mongodb://db:27017", want: store.Options{Driver: store.DriverMongo, MongoURI: "mongodb://db:27017", RedisPrefix: "flow:"}},
		{desc: "memory:", want: store.Options{Driver: store.DriverMemory, RedisPrefix: "flow:"}},
		{desc: ".flow", wantErr: true},
		{desc: "s3:bucket", wantErr: true},
	} {
		got, err := parseStorage(test.desc)
		if (err != nil) != test.wantErr {
			t.Errorf("parseStorage(%q) error = %v, wantErr %v", test.desc, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("parseStorage(%q) = %+v want %+v", test.desc, got, test.want)
		}
	}
}

func TestCopyKeys(t *testing.T) {
	ctx := context.Background()
	src, dst := store.NewMemory(), store.NewMemory()
	src.Set(ctx, flowfinance.KeyGoals, "[]")
	src.Set(ctx, flowfinance.KeyCrypto, "1.5")
	src.Set(ctx, "other", "x")
	dst.Set(ctx, flowfinance.KeyAssets, `{"cash":10}`)

	copied, err := copyKeys(ctx, src, dst)
	if err != nil {
		t.Fatalf("copyKeys() unexpected error: %v", err)
	}
	if len(copied) != 2 {
		t.Errorf("copyKeys() copied %v want the goals and crypto keys", copied)
	}
	want := map[string]string{
		flowfinance.KeyGoals:  "[]",
		flowfinance.KeyCrypto: "1.5",
		flowfinance.KeyAssets: `{"cash":10}`,
	}
	got := dst.Values()
	if len(got) != len(want) {
		t.Errorf("copyKeys() destination = %v want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("copyKeys() destination[%q] = %q want %q", k, got[k], v)
		}
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	clean := store.NewMemory()
	clean.Set(ctx, flowfinance.KeyAssets, `{"cash":1000}`)
	problems, s, err := check(ctx, clean, io.Discard)
	if err != nil {
		t.Fatalf("check(clean) unexpected error: %v", err)
	}
	if problems != 0 {
		t.Errorf("check(clean) = %d problems want 0", problems)
	}
	if got := s.Balances.Get(flowfinance.Cash); !got.Equal(flowfinance.HUF(1000)) {
		t.Errorf("check(clean) cash = %v want 1000", got)
	}

	broken := store.NewMemory()
	broken.Set(ctx, flowfinance.KeyTransactions, "not json")
	broken.Set(ctx, flowfinance.KeyGoals, `[{"id":"g","category":"","targetAmount":0,"type":"spending_limit"}]`)
	problems, _, err = check(ctx, broken, nil)
	if err != nil {
		t.Fatalf("check(broken) unexpected error: %v", err)
	}
	if problems != 2 {
		t.Errorf("check(broken) = %d problems want 2", problems)
	}
	if v, _, _ := broken.Get(ctx, flowfinance.KeyTransactions); v != "not json" {
		t.Errorf("check(broken) modified the storage: %q", v)
	}
}

func TestCheckEmpty(t *testing.T) {
	if _, _, err := check(context.Background(), store.NewMemory(), nil); !errors.Is(err, errNoState) {
		t.Errorf("check(empty) error = %v want %v", err, errNoState)
	}
}

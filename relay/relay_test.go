package relay

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestForwardPassesPayloadVerbatim(t *testing.T) {
	var gotEnv, gotAccount, gotPayload []byte
	dispatcher := DispatcherFunc(func(_ context.Context, env, account, payload []byte) ([][]byte, error) {
		gotEnv, gotAccount, gotPayload = env, account, payload
		return [][]byte{[]byte("result")}, nil
	})

	results, err := New(dispatcher).Forward(
		context.Background(),
		[]byte("env"), []byte("acct"), []byte{0x01, 0x02, 0xff},
	)
	if err != nil {
		t.Fatalf("forward failed: %v", err)
	}

	if !bytes.Equal(gotEnv, []byte("env")) || !bytes.Equal(gotAccount, []byte("acct")) {
		t.Errorf("handles = %q, %q; want env, acct", gotEnv, gotAccount)
	}
	if !bytes.Equal(gotPayload, []byte{0x01, 0x02, 0xff}) {
		t.Errorf("payload = %x, not forwarded verbatim", gotPayload)
	}
	if len(results) != 1 || !bytes.Equal(results[0], []byte("result")) {
		t.Errorf("results = %v, want [result]", results)
	}
}

func TestForwardPropagatesDispatchError(t *testing.T) {
	dispatchErr := errors.New("host rejected transaction")
	dispatcher := DispatcherFunc(func(context.Context, []byte, []byte, []byte) ([][]byte, error) {
		return nil, dispatchErr
	})

	results, err := New(dispatcher).Forward(context.Background(), nil, nil, []byte("tx"))
	if !errors.Is(err, dispatchErr) {
		t.Errorf("error = %v, want wrapped dispatch error", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil on error", results)
	}
}

// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/awsutil/internal/cloud"
	"github.com/tfctl/awsutil/internal/instance"
	"github.com/tfctl/awsutil/internal/storage"
)

// fakeCompute moves instances through their states in memory.
type fakeCompute struct {
	mu     sync.Mutex
	states map[instance.ID]instance.State
	addrs  map[instance.ID]string
	starts int
}

func (f *fakeCompute) lookup(id instance.ID) (instance.State, error) {
	s, ok := f.states[id]
	if !ok {
		return "", cloud.Mark(cloud.ErrNotFound, errors.New("InvalidInstanceID.NotFound"))
	}
	return s, nil
}

func (f *fakeCompute) State(_ context.Context, id instance.ID) (instance.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookup(id)
}

func (f *fakeCompute) RequestStart(_ context.Context, id instance.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.starts++
	if s == instance.StateStopped {
		f.states[id] = instance.StatePending
	}
	return nil
}

func (f *fakeCompute) WaitUntilStopped(_ context.Context, id instance.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[id] = instance.StateStopped
	return nil
}

func (f *fakeCompute) WaitUntilRunning(_ context.Context, id instance.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.states[id]; s != instance.StatePending && s != instance.StateRunning {
		return cloud.Mark(cloud.ErrTransitionTimeout, errors.New("exceeded max wait time"))
	}
	f.states[id] = instance.StateRunning
	return nil
}

func (f *fakeCompute) PublicAddress(_ context.Context, id instance.ID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup(id); err != nil {
		return "", false, err
	}
	addr, ok := f.addrs[id]
	return addr, ok, nil
}

func (f *fakeCompute) Describe(_ context.Context, id instance.ID) (types.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.lookup(id)
	if err != nil {
		return types.Instance{}, err
	}
	inst := types.Instance{
		InstanceId:   awsv2.String(string(id)),
		InstanceType: types.InstanceTypeT3Micro,
		State:        &types.InstanceState{Name: types.InstanceStateName(s)},
		Placement:    &types.Placement{AvailabilityZone: awsv2.String("us-east-1a")},
		Tags:         []types.Tag{{Key: awsv2.String("Name"), Value: awsv2.String("builder")}},
	}
	if addr, ok := f.addrs[id]; ok {
		inst.PublicIpAddress = awsv2.String(addr)
	}
	return inst, nil
}

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Stat(_ context.Context, bucket, key string) (storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return storage.ObjectInfo{}, cloud.Mark(cloud.ErrNotFound, errors.New("NoSuchKey"))
	}
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (m *memStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	info, err := m.Stat(ctx, bucket, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return io.NopCloser(bytes.NewReader(m.objects[bucket+"/"+key])), info, nil
}

func (m *memStore) Put(_ context.Context, bucket, key string, body io.ReadSeeker) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return nil
}

// fakeBackend hands out the fakes and remembers the flags it was built from.
type fakeBackend struct {
	compute *fakeCompute
	store   *memStore
	maxWait time.Duration
	region  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		compute: &fakeCompute{
			states: map[instance.ID]instance.State{
				"i-0001": instance.StateRunning,
				"i-0002": instance.StateStopped,
				"i-0003": instance.StateStopping,
			},
			addrs: map[instance.ID]string{"i-0001": "203.0.113.10"},
		},
		store: &memStore{objects: map[string][]byte{}},
	}
}

func (b *fakeBackend) Compute(_ context.Context, cmd *cli.Command) (Compute, error) {
	b.maxWait = cmd.Duration("max-wait")
	b.region = cmd.String("region")
	return b.compute, nil
}

func (b *fakeBackend) ObjectStore(_ context.Context, cmd *cli.Command) (storage.ObjectStore, error) {
	b.region = cmd.String("region")
	return b.store, nil
}

// run executes awsutil with args against b and returns stdout.
func run(t *testing.T, b Backend, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	argv := append([]string{"awsutil"}, args...)
	app, err := InitApp(context.Background(), argv, WithBackend(b), WithIO(strings.NewReader(stdin), &out))
	require.NoError(t, err)
	err = app.Run(context.Background(), argv)
	return out.String(), err
}

func setupEnv(t *testing.T, cfg string) {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", cfg))
	require.NoError(t, err)
	t.Setenv("AWSUTIL_CFG_FILE", path)
	t.Setenv("AWSUTIL_CACHE", "0")
	for _, k := range []string{"AWSUTIL_MAX_WAIT", "AWSUTIL_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"} {
		unsetenv(t, k)
	}
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	if v, ok := os.LookupEnv(key); ok {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { _ = os.Setenv(key, v) })
	}
}

func TestInitApp(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	app, err := InitApp(context.Background(), []string{"awsutil", "ec2"}, WithBackend(newFakeBackend()))
	require.NoError(t, err)

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"ec2", "s3", "completion"}, names)

	ec2 := app.Commands[0]
	sub := make([]string, 0, len(ec2.Commands))
	for _, c := range ec2.Commands {
		sub = append(sub, c.Name)
	}
	assert.Equal(t, []string{"start", "status", "ip", "describe"}, sub)

	// Flags are sorted for --help.
	start := ec2.Commands[0]
	for i := 1; i < len(start.Flags); i++ {
		assert.LessOrEqual(t, start.Flags[i-1].Names()[0], start.Flags[i].Names()[0])
	}
}

func TestEC2Status(t *testing.T) {
	setupEnv(t, "awsutil.yaml")
	b := newFakeBackend()

	out, err := run(t, b, "", "ec2", "status", "-o", "json", "i-0001", "i-0002")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]interface{}{"id": "i-0001", "state": "running", "running": true}, rows[0])
	assert.Equal(t, map[string]interface{}{"id": "i-0002", "state": "stopped", "running": false}, rows[1])
	assert.Zero(t, b.compute.starts, "status never starts anything")
}

func TestEC2Start(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "stopped", id: "i-0002"},
		{name: "stopping", id: "i-0003"},
		{name: "already running", id: "i-0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t, "awsutil.yaml")
			b := newFakeBackend()

			out, err := run(t, b, "", "ec2", "start", "--no-progress", "-o", "json", tt.id)
			require.NoError(t, err)

			var row map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(out), &row))
			assert.Equal(t, tt.id, row["id"])
			assert.Equal(t, "running", row["state"])
			assert.Contains(t, row, "elapsed")
			assert.Equal(t, instance.StateRunning, b.compute.states[instance.ID(tt.id)])
			assert.Equal(t, 1, b.compute.starts)
		})
	}
}

func TestEC2Start_MaxWait(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	b := newFakeBackend()
	_, err := run(t, b, "", "ec2", "start", "--no-progress", "--max-wait", "90s", "i-0001")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, b.maxWait)

	// From ec2.max_wait in the config file.
	b = newFakeBackend()
	_, err = run(t, b, "", "ec2", "start", "--no-progress", "i-0001")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, b.maxWait)
}

func TestEC2Start_PartialFailure(t *testing.T) {
	setupEnv(t, "awsutil.yaml")
	b := newFakeBackend()

	out, err := run(t, b, "", "ec2", "start", "--no-progress", "-o", "json", "i-0002", "i-9999")
	require.Error(t, err)
	assert.ErrorIs(t, err, cloud.ErrNotFound)
	assert.ErrorContains(t, err, "i-9999")

	// The instance that did start is still reported.
	var row map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, "i-0002", row["id"])
}

func TestEC2IP(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	out, err := run(t, newFakeBackend(), "", "ec2", "ip", "-o", "yaml", "i-0001", "i-0002")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "203.0.113.10", rows[0]["public_ip"])
	assert.Contains(t, rows[1], "public_ip")
	assert.Nil(t, rows[1]["public_ip"], "absent address is null, not an error")
}

func TestEC2IP_Text(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	out, err := run(t, newFakeBackend(), "", "ec2", "ip", "--titles", "i-0002")
	require.NoError(t, err)
	assert.Contains(t, out, "public_ip")
	assert.Contains(t, out, "i-0002")
	assert.Contains(t, out, "-")
}

func TestEC2Describe(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	out, err := run(t, newFakeBackend(), "", "ec2", "describe", "-o", "json",
		"--attrs", `Tags.#(Key=="Name").Value:name,type::u`, "i-0001")
	require.NoError(t, err)

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, "i-0001", row["id"])
	assert.Equal(t, "running", row["state"])
	assert.Equal(t, "us-east-1a", row["az"])
	assert.Equal(t, "T3.MICRO", row["type"])
	assert.Equal(t, "builder", row["name"])
	assert.Nil(t, row["private_ip"])
}

func TestEC2Describe_BadAttrs(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	_, err := run(t, newFakeBackend(), "", "ec2", "describe", "--attrs", "a:b:c:d", "i-0001")
	assert.ErrorContains(t, err, "invalid attr spec")
}

func TestEC2_Args(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	for _, sub := range []string{"start", "status", "ip", "describe"} {
		t.Run(sub, func(t *testing.T) {
			_, err := run(t, newFakeBackend(), "", "ec2", sub)
			assert.ErrorContains(t, err, "wrong number of arguments")
		})
	}
}

func TestOutputFromConfig(t *testing.T) {
	setupEnv(t, "json-output.yaml")

	out, err := run(t, newFakeBackend(), "", "ec2", "status", "i-0001")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "ec2.output in config selects json: %q", out)
}

func TestOutputValidator(t *testing.T) {
	assert.NoError(t, OutputValidator("yaml"))
	assert.ErrorContains(t, OutputValidator("raw"), "must be one of")

	setupEnv(t, "awsutil.yaml")
	_, err := run(t, newFakeBackend(), "", "ec2", "status", "-o", "xml", "i-0001")
	assert.Error(t, err)
}

func TestS3PutGet_Stdio(t *testing.T) {
	setupEnv(t, "awsutil.yaml")
	b := newFakeBackend()

	out, err := run(t, b, "hello world", "s3", "put", "-o", "json", "artifacts", "build/log.txt", "-")
	require.NoError(t, err)

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, "artifacts", row["bucket"])
	assert.Equal(t, "build/log.txt", row["key"])
	assert.Equal(t, "11 B", row["size"])

	out, err = run(t, b, "", "s3", "get", "artifacts", "build/log.txt", "-")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestS3PutGet_Files(t *testing.T) {
	setupEnv(t, "awsutil.yaml")
	t.Setenv("AWSUTIL_CACHE_DIR", t.TempDir())
	b := newFakeBackend()
	dir := t.TempDir()

	src := filepath.Join(dir, "in.bin")
	require.NoError(t, os.WriteFile(src, bytes.Repeat([]byte("x"), 1500), 0o600))

	_, err := run(t, b, "", "s3", "put", "artifacts", "blob", src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "out.bin")
	out, err := run(t, b, "", "s3", "get", "-o", "yaml", "--cache", "artifacts", "blob", dst)
	require.NoError(t, err)

	var row map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &row))
	assert.Equal(t, dst, row["file"])
	assert.Equal(t, "1.5 kB", row["size"])

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Len(t, got, 1500)
}

func TestS3Get_NotFound(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	dst := filepath.Join(t.TempDir(), "missing")
	_, err := run(t, newFakeBackend(), "", "s3", "get", "artifacts", "nope", dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, cloud.ErrNotFound)
	assert.NoFileExists(t, dst)
}

func TestS3_Args(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	_, err := run(t, newFakeBackend(), "", "s3", "get", "artifacts", "key")
	assert.ErrorContains(t, err, "wrong number of arguments")

	_, err = run(t, newFakeBackend(), "", "s3", "put", "artifacts", "", "-")
	assert.ErrorContains(t, err, "empty argument")

	_, err = run(t, newFakeBackend(), "", "s3", "put", "artifacts", "  ", "-")
	assert.ErrorContains(t, err, "empty argument")
}

func TestEC2Start_BlankID(t *testing.T) {
	setupEnv(t, "awsutil.yaml")
	b := newFakeBackend()

	_, err := run(t, b, "", "ec2", "start", "--no-progress", "i-0001", "", "i-0002")

	assert.ErrorContains(t, err, "empty argument at position 5")
	assert.Zero(t, b.compute.starts)
	assert.Equal(t, instance.StateStopped, b.compute.states["i-0002"])
}

func TestEmptyArg(t *testing.T) {
	bools := map[string]bool{"no-progress": true, "help": true, "h": true}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"none", []string{"awsutil", "ec2", "status", "i-1"}, -1},
		{"between ids", []string{"awsutil", "ec2", "start", "i-1", "", "i-2"}, 4},
		{"trailing", []string{"awsutil", "ec2", "status", "i-1", " "}, 4},
		{"flag value", []string{"awsutil", "ec2", "status", "--sort", "", "i-1"}, -1},
		{"short flag value", []string{"awsutil", "ec2", "status", "-s", "", "i-1"}, -1},
		{"after bool flag", []string{"awsutil", "ec2", "start", "--no-progress", "", "i-1"}, 4},
		{"after assigned flag", []string{"awsutil", "ec2", "status", "--sort=id", "", "i-1"}, 4},
		{"after terminator", []string{"awsutil", "ec2", "status", "--", ""}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, emptyArg(tt.args, bools))
		})
	}
}

func TestBoolFlagNames(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	app, err := InitApp(context.Background(), []string{"awsutil", "ec2"}, WithBackend(newFakeBackend()))
	require.NoError(t, err)

	names := boolFlagNames(app)
	for _, n := range []string{"no-progress", "color", "c", "titles", "t", "version", "v", "cache", "help"} {
		assert.True(t, names[n], n)
	}
	assert.False(t, names["sort"])
	assert.False(t, names["max-wait"])
}

func TestAWSFlags_Region(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	b := newFakeBackend()
	_, err := run(t, b, "", "ec2", "status", "--region", "eu-west-1", "i-0001")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", b.region)

	t.Setenv("AWSUTIL_REGION", "ap-south-1")
	_, err = run(t, b, "", "s3", "get", "artifacts", "k", "-")
	assert.Error(t, err)
	assert.Equal(t, "ap-south-1", b.region)
}

func TestCompletion(t *testing.T) {
	setupEnv(t, "awsutil.yaml")

	out, err := run(t, newFakeBackend(), "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _awsutil awsutil")

	out, err = run(t, newFakeBackend(), "", "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "compdef _awsutil awsutil")
}

func TestForEach(t *testing.T) {
	ids := []instance.ID{"a", "b", "c", "d"}
	rows, err := forEach(context.Background(), ids, func(_ context.Context, id instance.ID) (map[string]interface{}, error) {
		if id == "c" {
			return nil, cloud.ErrPermissionDenied
		}
		return map[string]interface{}{"id": string(id)}, nil
	})

	assert.ErrorIs(t, err, cloud.ErrPermissionDenied)
	assert.ErrorContains(t, err, "c: ")
	require.Len(t, rows, 3)
	for i, want := range []string{"a", "b", "d"} {
		assert.Equal(t, want, rows[i]["id"])
	}
}

package zapmask

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/shroud"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type customer struct {
	Name  string
	Email string `sensitive:"email"`
	Card  string `sensitive:"credit_card"`
}

type shipment struct {
	ID      string
	Contact customer
}

type badge struct {
	Holder string `sensitive:"generic,first=1"`
}

func (b badge) String() string { return "badge:" + b.Holder }

func newCustomer() customer {
	return customer{Name: "bob", Email: "user@example.com", Card: "4111 1111 1111 1234"}
}

func newObserved(t *testing.T, opts ...shroud.LogOption) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, observed := observer.New(zapcore.DebugLevel)
	return zap.New(NewCore(core, shroud.NewLogRedactor(opts...))), observed
}

func TestCore_RedactsReflectedField(t *testing.T) {
	logger, observed := newObserved(t)

	logger.Info("loaded", zap.Any("customer", newCustomer()), zap.String("plain", "visible"))

	logs := observed.All()
	require.Len(t, logs, 1)

	ctx := logs[0].ContextMap()
	assert.Equal(t, "visible", ctx["plain"])
	assert.Equal(t, map[string]interface{}{
		"Name":  "bob",
		"Email": "u**r@example.com",
		"Card":  "************1234",
	}, ctx["customer"])
}

func TestCore_RedactsNested(t *testing.T) {
	logger, observed := newObserved(t)

	logger.Info("shipped", zap.Reflect("shipment", shipment{ID: "s1", Contact: newCustomer()}))

	logs := observed.All()
	require.Len(t, logs, 1)
	got, ok := logs[0].ContextMap()["shipment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "s1", got["ID"])
	contact, ok := got["Contact"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u**r@example.com", contact["Email"])
}

func TestCore_RedactsStringer(t *testing.T) {
	logger, observed := newObserved(t)

	logger.Info("entered", zap.Stringer("badge", badge{Holder: "Alice"}))

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]interface{}{"Holder": "A****"}, logs[0].ContextMap()["badge"])
}

func TestCore_LabelMode(t *testing.T) {
	logger, observed := newObserved(t, shroud.WithLogMode(shroud.LogModeLabel))

	logger.Info("loaded", zap.Any("customer", newCustomer()))

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "MaskedObject(customer)", logs[0].ContextMap()["customer"])
}

func TestCore_With(t *testing.T) {
	logger, observed := newObserved(t)

	logger.With(zap.Any("customer", newCustomer())).Info("bound")

	logs := observed.All()
	require.Len(t, logs, 1)
	got, ok := logs[0].ContextMap()["customer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "************1234", got["Card"])
}

func TestCore_LeavesOtherFields(t *testing.T) {
	logger, observed := newObserved(t)

	logger.Info("plain", zap.Any("n", 42), zap.Any("m", map[string]string{"a": "b"}))

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.EqualValues(t, 42, logs[0].ContextMap()["n"])
	assert.Equal(t, map[string]string{"a": "b"}, logs[0].ContextMap()["m"])
}

func TestCore_RespectsLevel(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	logger := zap.New(NewCore(core, nil))

	logger.Info("dropped", zap.Any("customer", newCustomer()))
	logger.Warn("kept")

	assert.Equal(t, 1, observed.Len())
}

func TestSugar_Printf(t *testing.T) {
	logger, observed := newObserved(t)
	sugar := Sugar(logger, nil)

	sugar.Infof("loaded %v for %s", newCustomer(), "support")
	sugar.Error("failed for ", newCustomer())

	logs := observed.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "loaded customer{Name:bob Email:u**r@example.com Card:************1234} for support", logs[0].Message)
	assert.Equal(t, "failed for customer{Name:bob Email:u**r@example.com Card:************1234}", logs[1].Message)
	assert.NotContains(t, logs[0].Message, "user@example.com")
}

func TestSugar_KeysAndValues(t *testing.T) {
	logger, observed := newObserved(t)
	sugar := Sugar(logger, nil)

	sugar.Infow("loaded", "customer", newCustomer(), "count", 3)
	sugar.With("badge", badge{Holder: "Alice"}).Warnw("entered")

	logs := observed.All()
	require.Len(t, logs, 2)

	got, ok := logs[0].ContextMap()["customer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u**r@example.com", got["Email"])
	assert.EqualValues(t, 3, logs[0].ContextMap()["count"])

	b, ok := logs[1].ContextMap()["badge"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "A****", b["Holder"])
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: "debug", Format: "json", Output: zapcore.AddSync(&buf)}, nil)
	require.NoError(t, err)

	logger.Debug("loaded", zap.Any("customer", newCustomer()))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, buf.String(), "user@example.com")
	assert.Contains(t, buf.String(), `"Email":"u**r@example.com"`)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"}, nil)
	assert.Error(t, err)

	_, err = NewLogger(Config{Format: "xml"}, nil)
	assert.Error(t, err)
}

type team struct {
	Name    string
	Members []customer
}

func TestCore_RedactsSliceOfStructs(t *testing.T) {
	logger, observed := newObserved(t)

	logger.Info("staffed", zap.Any("team", team{Name: "ops", Members: []customer{newCustomer()}}))

	logs := observed.All()
	require.Len(t, logs, 1)
	got, ok := logs[0].ContextMap()["team"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ops", got["Name"])

	data, err := json.Marshal(got["Members"])
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Name":"bob","Email":"u**r@example.com","Card":"************1234"}]`, string(data))
	assert.NotContains(t, string(data), "user@example.com")
}

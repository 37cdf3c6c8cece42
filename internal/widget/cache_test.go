package widget

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "modernc.org/sqlite"

	"github.com/lox/lockweather/internal/metrics"
	"github.com/lox/lockweather/internal/store"
	"github.com/lox/lockweather/internal/weather"
)

const (
	goodBlob   = "2442047|Los Angeles|Clear|32|72|F|48|5|90|mph|1385542800000|1;74;55;Sunny;32"
	goodBlobV2 = "2442047|Los Angeles|Wed|Clear|32|72|55|74|F|48|5|90|mph|1385542800000"
	aqiLine    = "11-27-2013 09:00; PM2.5; 99.0; 173; Unhealthy (at 24-hour exposure at this level)"
)

func setupTestCache(t *testing.T) (*Cache, *store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewCache(st, weather.Parser{}), st
}

func TestRestoreAndCurrent(t *testing.T) {
	cache, _ := setupTestCache(t)

	info, err := cache.Restore(goodBlob)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if info.City != "Los Angeles" {
		t.Errorf("City = %q, want Los Angeles", info.City)
	}

	got, err := cache.Current("2442047")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got == nil {
		t.Fatal("Current returned nil")
	}
	if got.Serialize() != goodBlob {
		t.Errorf("Current().Serialize() = %q, want %q", got.Serialize(), goodBlob)
	}

	missing, err := cache.Current("nowhere")
	if err != nil {
		t.Fatalf("Current(nowhere): %v", err)
	}
	if missing != nil {
		t.Errorf("Current(nowhere) = %v, want nil", missing)
	}
}

func TestRestoreKeepsPreviousOnFailure(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.Restore(goodBlob); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	before := testutil.ToFloat64(metrics.SnapshotDecodes.WithLabelValues(SchemaLegacy, metrics.ResultInvalid))
	bad := "2442047|Los Angeles|Clear|32|72|F|48|5|90|mph|1385542800000|2;74;55;Sunny;32"
	info, err := cache.Restore(bad)
	if !errors.Is(err, weather.ErrInvalidSnapshot) {
		t.Fatalf("Restore(bad) err = %v, want ErrInvalidSnapshot", err)
	}
	if info != nil {
		t.Errorf("Restore(bad) = %v, want nil", info)
	}
	after := testutil.ToFloat64(metrics.SnapshotDecodes.WithLabelValues(SchemaLegacy, metrics.ResultInvalid))
	if after != before+1 {
		t.Errorf("invalid decodes = %v, want %v", after, before+1)
	}

	got, err := cache.Current("2442047")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got == nil || got.Serialize() != goodBlob {
		t.Errorf("Current after failed restore = %v, want previous snapshot", got)
	}
}

func TestCurrentUnreadableBlob(t *testing.T) {
	cache, st := setupTestCache(t)

	if err := st.PutSnapshot(store.SnapshotRecord{ID: "x", Schema: SchemaLegacy, Blob: "garbage"}); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}
	got, err := cache.Current("x")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got != nil {
		t.Errorf("Current = %v, want nil for unreadable blob", got)
	}
}

func TestUpdateAndCurrentV2(t *testing.T) {
	cache, _ := setupTestCache(t)

	info := weather.NewInfoV2("loc", "Bright", "Thu", "Rain", 12, 8.5, 4, 11, "C", 90, 10, 180, "km/h", time.UnixMilli(1700000000000))
	info.SetAQI("09:00;O3:40; AQI:30;Good")
	if err := cache.UpdateV2(info); err != nil {
		t.Fatalf("UpdateV2: %v", err)
	}

	got, err := cache.CurrentV2("loc")
	if err != nil {
		t.Fatalf("CurrentV2: %v", err)
	}
	if got == nil {
		t.Fatal("CurrentV2 returned nil")
	}
	if got.Serialize() != info.Serialize() {
		t.Errorf("CurrentV2().Serialize() = %q, want %q", got.Serialize(), info.Serialize())
	}

	legacy, err := cache.Current("loc")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if legacy != nil {
		t.Errorf("Current(loc) = %v, want nil (only a v2 snapshot is cached)", legacy)
	}
}

func TestRestoreV2(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.RestoreV2(goodBlobV2); err != nil {
		t.Fatalf("RestoreV2: %v", err)
	}
	if _, err := cache.RestoreV2(goodBlob); !errors.Is(err, weather.ErrInvalidSnapshot) {
		t.Errorf("RestoreV2(legacy blob) err = %v, want ErrInvalidSnapshot", err)
	}
	got, err := cache.CurrentV2("2442047")
	if err != nil || got == nil {
		t.Fatalf("CurrentV2 = (%v, %v), want snapshot", got, err)
	}
	if got.ForecastDate != "Wed" {
		t.Errorf("ForecastDate = %q, want Wed", got.ForecastDate)
	}
}

func TestAnnotateAQI(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.AnnotateAQI("2442047", aqiLine); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("AnnotateAQI without snapshot err = %v, want ErrNoSnapshot", err)
	}

	if _, err := cache.Restore(goodBlob); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := cache.AnnotateAQI("2442047", "not an aqi line"); !errors.Is(err, ErrInvalidAQI) {
		t.Errorf("AnnotateAQI(bad line) err = %v, want ErrInvalidAQI", err)
	}

	info, err := cache.AnnotateAQI("2442047", aqiLine)
	if err != nil {
		t.Fatalf("AnnotateAQI: %v", err)
	}
	want := "09:00;PM2.5:99.0; AQI:173;Unhealthy"
	if info.AQI() != want {
		t.Errorf("AQI() = %q, want %q", info.AQI(), want)
	}

	got, err := cache.Current("2442047")
	if err != nil || got == nil {
		t.Fatalf("Current = (%v, %v), want snapshot", got, err)
	}
	if got.AQI() != want {
		t.Errorf("cached AQI() = %q, want %q", got.AQI(), want)
	}

	again, err := cache.AnnotateAQI("2442047", "11-27-2013 10:00; O3; 0.031; 29; Good")
	if err != nil {
		t.Fatalf("second AnnotateAQI: %v", err)
	}
	if again.AQI() != want {
		t.Errorf("AQI() after second annotate = %q, want first value kept", again.AQI())
	}
}

func TestUpdateRejectsUndecodableSnapshot(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.Restore(goodBlob); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	noForecasts := weather.NewInfo("2442047", "Los Angeles", "Clear", 32, 80, "F", 40, 3, 90, "mph", nil, time.UnixMilli(1385546400000))
	if err := cache.Update(noForecasts); !errors.Is(err, weather.ErrInvalidSnapshot) {
		t.Errorf("Update(no forecasts) err = %v, want ErrInvalidSnapshot", err)
	}

	pipeAQI := weather.NewInfo("2442047", "Los Angeles", "Clear", 32, 80, "F", 40, 3, 90, "mph",
		[]weather.DayForecast{{Low: 55, High: 74, Condition: "Sunny", ConditionCode: 32}}, time.UnixMilli(1385546400000))
	pipeAQI.SetAQI("09:00;PM2.5:99.0; AQI:173;Unhealthy|Sensitive")
	if err := cache.Update(pipeAQI); !errors.Is(err, weather.ErrInvalidSnapshot) {
		t.Errorf("Update(aqi with separator) err = %v, want ErrInvalidSnapshot", err)
	}

	if _, err := cache.AnnotateAQI("2442047", "11-27-2013 09:00; PM2.5; 99.0; 173; Unhealthy|Sensitive (x)"); !errors.Is(err, ErrInvalidAQI) {
		t.Errorf("AnnotateAQI(line with separator) err = %v, want ErrInvalidAQI", err)
	}

	got, err := cache.Current("2442047")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got == nil || got.Serialize() != goodBlob {
		t.Errorf("Current after rejected writes = %v, want previous snapshot", got)
	}
}

func TestUpdateRejectsUndecodableSnapshotV2(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.RestoreV2(goodBlobV2); err != nil {
		t.Fatalf("RestoreV2: %v", err)
	}

	info := weather.NewInfoV2("2442047", "Los|Angeles", "Thu", "Rain", 12, 8.5, 4, 11, "C", 90, 10, 180, "km/h", time.UnixMilli(1700000000000))
	if err := cache.UpdateV2(info); !errors.Is(err, weather.ErrInvalidSnapshot) {
		t.Errorf("UpdateV2(city with separator) err = %v, want ErrInvalidSnapshot", err)
	}

	got, err := cache.CurrentV2("2442047")
	if err != nil {
		t.Fatalf("CurrentV2: %v", err)
	}
	if got == nil || got.Serialize() != goodBlobV2 {
		t.Errorf("CurrentV2 after rejected write = %v, want previous snapshot", got)
	}
}

func TestSnapshots(t *testing.T) {
	cache, _ := setupTestCache(t)

	if _, err := cache.Restore(goodBlob); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := cache.RestoreV2(goodBlobV2); err != nil {
		t.Fatalf("RestoreV2: %v", err)
	}
	recs, err := cache.Snapshots()
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len(Snapshots) = %d, want 2", len(recs))
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
)

const (
	BackendMemory   = "memory"
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	CORSAllowedOrigins      []string
	LineupBackend           string
	SOMSBaseURL             string
	SOMSTimeout             time.Duration
	SOMSMaxRetries          int
	SOMSCircuitEnabled      bool
	SOMSCircuitFailureCount int
	SOMSCircuitOpenTimeout  time.Duration
	SOMSCircuitHalfOpenMax  int
	DBURL                   string
	DBDisablePreparedBinary bool
	DBBootstrapSeed         bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	RedisURL                string
	LineupTeamID            int64
	LineupFallbackFormation int64
	LineupDetailWorkers     int
	EditorSessionTTL        time.Duration
	EditorMaxSessions       int
	PprofEnabled            bool
	PprofAddr               string
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeBasicAuthUser  string
	PyroscopeBasicAuthPass  string
	PyroscopeUploadRate     time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	lineupBackend, err := parseBackend(getEnv("LINEUP_BACKEND", BackendMemory))
	if err != nil {
		return Config{}, err
	}

	somsBaseURL := strings.TrimSpace(getEnv("SOMS_BASE_URL", "http://localhost:8000"))
	if lineupBackend == BackendREST && somsBaseURL == "" {
		return Config{}, fmt.Errorf("SOMS_BASE_URL is required when LINEUP_BACKEND=%s", BackendREST)
	}
	somsTimeout, err := time.ParseDuration(getEnv("SOMS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_TIMEOUT: %w", err)
	}
	if somsTimeout <= 0 {
		return Config{}, fmt.Errorf("SOMS_TIMEOUT must be > 0")
	}
	somsMaxRetries, err := getEnvAsInt("SOMS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_MAX_RETRIES: %w", err)
	}
	if somsMaxRetries < 0 {
		return Config{}, fmt.Errorf("SOMS_MAX_RETRIES must be >= 0")
	}
	somsCircuitEnabled, err := strconv.ParseBool(getEnv("SOMS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_CIRCUIT_ENABLED: %w", err)
	}
	somsCircuitFailureCount, err := getEnvAsInt("SOMS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if somsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SOMS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	somsCircuitOpenTimeout, err := time.ParseDuration(getEnv("SOMS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if somsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SOMS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	somsCircuitHalfOpenMax, err := getEnvAsInt("SOMS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SOMS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if somsCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("SOMS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if lineupBackend == BackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when LINEUP_BACKEND=%s", BackendPostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbBootstrapSeed, err := strconv.ParseBool(getEnv("DB_BOOTSTRAP_SEED", strconv.FormatBool(appEnv == EnvDev)))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_BOOTSTRAP_SEED: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	teamID, err := getEnvAsInt64("LINEUP_TEAM_ID", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse LINEUP_TEAM_ID: %w", err)
	}
	if teamID <= 0 {
		return Config{}, fmt.Errorf("LINEUP_TEAM_ID must be > 0")
	}
	fallbackFormation, err := getEnvAsInt64("LINEUP_FALLBACK_FORMATION_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LINEUP_FALLBACK_FORMATION_ID: %w", err)
	}
	if fallbackFormation < 0 {
		return Config{}, fmt.Errorf("LINEUP_FALLBACK_FORMATION_ID must be >= 0")
	}
	detailWorkers, err := getEnvAsInt("LINEUP_DETAIL_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse LINEUP_DETAIL_WORKERS: %w", err)
	}
	if detailWorkers < 1 {
		return Config{}, fmt.Errorf("LINEUP_DETAIL_WORKERS must be >= 1")
	}

	sessionTTL, err := time.ParseDuration(getEnv("EDITOR_SESSION_TTL", "2h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EDITOR_SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("EDITOR_SESSION_TTL must be > 0")
	}
	maxSessions, err := getEnvAsInt("EDITOR_MAX_SESSIONS", 256)
	if err != nil {
		return Config{}, fmt.Errorf("parse EDITOR_MAX_SESSIONS: %w", err)
	}
	if maxSessions < 1 {
		return Config{}, fmt.Errorf("EDITOR_MAX_SESSIONS must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "squad-lineup-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		LogLevel:                logLevel,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LineupBackend:           lineupBackend,
		SOMSBaseURL:             somsBaseURL,
		SOMSTimeout:             somsTimeout,
		SOMSMaxRetries:          somsMaxRetries,
		SOMSCircuitEnabled:      somsCircuitEnabled,
		SOMSCircuitFailureCount: somsCircuitFailureCount,
		SOMSCircuitOpenTimeout:  somsCircuitOpenTimeout,
		SOMSCircuitHalfOpenMax:  somsCircuitHalfOpenMax,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBBootstrapSeed:         dbBootstrapSeed,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		RedisURL:                strings.TrimSpace(getEnv("REDIS_URL", "")),
		LineupTeamID:            teamID,
		LineupFallbackFormation: fallbackFormation,
		LineupDetailWorkers:     detailWorkers,
		EditorSessionTTL:        sessionTTL,
		EditorMaxSessions:       maxSessions,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		UptraceLogsEnabled:      uptraceLogsEnabled,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPass:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseInt(value, 10, 64)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case BackendMemory, BackendREST, BackendPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid LINEUP_BACKEND %q: valid values are %s, %s, %s", v, BackendMemory, BackendREST, BackendPostgres)
	}
}

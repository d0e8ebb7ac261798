package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Environment snapshot taken at start-up plus parsed values cached per key.
var (
	strEnvMap    = make(map[string]string)
	parsedEnvMap = make(map[string]interface{})
	envMapMutex  sync.RWMutex
)

func init() {
	for _, entry := range os.Environ() {
		idx := strings.Index(entry, "=")
		if idx <= 0 {
			continue
		}
		strEnvMap[entry[:idx]] = entry[idx+1:]
	}
}

// lookup returns the cached parsed value of key, parsing the raw string with parse
// on first use. ok is false when the setting does not exist.
func lookup(key string, parse func(string) (interface{}, error)) (value interface{}, ok bool) {
	envMapMutex.RLock()
	if v, exists := parsedEnvMap[key]; exists {
		envMapMutex.RUnlock()
		return v, true
	}
	raw, exists := strEnvMap[key]
	envMapMutex.RUnlock()
	if !exists {
		return nil, false
	}

	v, err := parse(raw)
	if err != nil {
		panic(fmt.Errorf("failed to parse setting %s=%q, err=%w", key, raw, err))
	}
	envMapMutex.Lock()
	parsedEnvMap[key] = v
	envMapMutex.Unlock()
	return v, true
}

func missing(key string) error {
	return fmt.Errorf("setting %s does not exist", key)
}

// GetString returns a setting in string.
func GetString(key string, defaultValue ...string) string {
	envMapMutex.RLock()
	defer envMapMutex.RUnlock()

	val, exists := strEnvMap[key]
	if !exists {
		if len(defaultValue) == 0 {
			panic(missing(key))
		}
		val = defaultValue[0]
	}
	return val
}

// GetBool returns a setting in bool.
func GetBool(key string, def ...bool) bool {
	v, ok := lookup(key, func(s string) (interface{}, error) {
		return strconv.ParseBool(s)
	})
	if !ok {
		if len(def) == 0 {
			panic(missing(key))
		}
		return def[0]
	}
	return v.(bool)
}

// GetInt returns a setting in integer.
func GetInt(key string, def ...int) int {
	v, ok := lookup(key, func(s string) (interface{}, error) {
		i, err := strconv.ParseInt(s, 0, 32)
		return int(i), err
	})
	if !ok {
		if len(def) == 0 {
			panic(missing(key))
		}
		return def[0]
	}
	return v.(int)
}

// GetInt64 returns a setting in int64.
func GetInt64(key string, def ...int64) int64 {
	v, ok := lookup(key, func(s string) (interface{}, error) {
		return strconv.ParseInt(s, 0, 64)
	})
	if !ok {
		if len(def) == 0 {
			panic(missing(key))
		}
		return def[0]
	}
	return v.(int64)
}

// GetMillisecond returns a setting given in milliseconds as time.Duration.
func GetMillisecond(key string, def ...time.Duration) time.Duration {
	v, ok := lookup(key, func(s string) (interface{}, error) {
		ms, err := strconv.ParseUint(s, 0, 32)
		return time.Duration(ms) * time.Millisecond, err
	})
	if !ok {
		if len(def) == 0 {
			panic(missing(key))
		}
		return def[0]
	}
	return v.(time.Duration)
}

// SetString sets a raw setting, dropping any parsed value cached for it.
func SetString(key string, value string) {
	envMapMutex.Lock()
	strEnvMap[key] = value
	delete(parsedEnvMap, key)
	envMapMutex.Unlock()
}

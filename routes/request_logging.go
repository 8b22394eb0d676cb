/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lmteixeira17/blood-exams/logging"
)

var requestLogger = logging.Logger(logging.SourceWebRequest)

// accessLog is the rotating access log file alongside the structured
// stdout logs.
var accessLog = &lumberjack.Logger{
	Filename:   "blood-exams-access.log",
	MaxSize:    10, // megabytes
	MaxBackups: 3,
	MaxAge:     30, // days
}

// RequestLogger logs request metadata and timing for each HTTP request.
func RequestLogger(c flamego.Context) {
	start := time.Now()

	c.Next()

	status := c.ResponseWriter().Status()
	if status == 0 {
		status = http.StatusOK
	}

	duration := time.Since(start)

	requestLogger.Info("request",
		"event", "request",
		"status", status,
		"duration_ms", duration.Milliseconds(),
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"ip", clientIP(c),
		"user_agent", c.Request().UserAgent(),
	)

	fmt.Fprintf(accessLog, "[%s] %s %s %s %d - %v\n",
		start.UTC().Format(time.RFC3339),
		c.Request().Method,
		c.Request().URL.Path,
		clientIP(c),
		status,
		duration)
}

func clientIP(c flamego.Context) string {
	forwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}

	addr := c.Request().RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

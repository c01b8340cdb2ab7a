package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	appLogger  *log.Logger
	appLogPath string
	appLogOnce sync.Once

	debugLogger  *log.Logger
	debugLogPath string
	debugLogOnce sync.Once
	// debugPacketDumpLen limits how many bytes of a packet payload are logged.
	// A value of 0 dumps the entire payload.
	debugPacketDumpLen = 256
)

func setupLogging(debug bool) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("could not create log directory: %v", err)
	}
	ts := time.Now().Format("20060102-150405")

	appLogPath = filepath.Join(logDir, fmt.Sprintf("govox-%s.log", ts))
	appLogOnce = sync.Once{}
	appLogger = log.New(os.Stdout, "", log.LstdFlags)
	log.SetOutput(appLogger.Writer())

	setDebugLogging(debug)
}

// appLogFile attaches the file backend the first time something is logged, so
// an empty run leaves no log file behind.
func appLogFile() {
	appLogOnce.Do(func() {
		if f, err := os.Create(appLogPath); err == nil {
			appLogger.SetOutput(io.MultiWriter(os.Stdout, f))
			log.SetOutput(appLogger.Writer())
		}
	})
}

func logInfo(format string, v ...interface{}) {
	if appLogger == nil {
		return
	}
	appLogFile()
	appLogger.Printf(format, v...)
}

func logWarn(format string, v ...interface{}) {
	if appLogger == nil {
		return
	}
	appLogFile()
	appLogger.Printf("warning: %s", fmt.Sprintf(format, v...))
}

func logError(format string, v ...interface{}) {
	if appLogger == nil {
		return
	}
	appLogFile()
	appLogger.Printf("error: %s", fmt.Sprintf(format, v...))
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogOnce.Do(func() {
			if f, err := os.Create(debugLogPath); err == nil {
				debugLogger.SetOutput(io.MultiWriter(os.Stdout, f))
			}
		})
		debugLogger.Printf(format, v...)
	}
}

func logDebugPacket(prefix string, data []byte) {
	if debugLogger == nil {
		return
	}
	debugLogOnce.Do(func() {
		if f, err := os.Create(debugLogPath); err == nil {
			debugLogger.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	})
	n := len(data)
	dump := data
	if debugPacketDumpLen > 0 && n > debugPacketDumpLen {
		dump = data[:debugPacketDumpLen]
	}
	debugLogger.Printf("%s len=%d payload=% x", prefix, n, dump)
}

func setDebugLogging(enabled bool) {
	if enabled {
		logDir := "logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("could not create log directory: %v", err)
		}
		ts := time.Now().Format("20060102-150405")
		debugLogPath = filepath.Join(logDir, fmt.Sprintf("debug-%s.log", ts))
		debugLogOnce = sync.Once{}
		debugLogger = log.New(os.Stdout, "", log.LstdFlags)
	} else {
		debugLogger = nil
	}
}

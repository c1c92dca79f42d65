package services

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/athebyme/funpay-helper/internal/utils"
	"github.com/athebyme/funpay-helper/pkg/interfaces"
	"github.com/google/uuid"
)

// scriptStopWait — ожидание завершения процесса после сигнала остановки
const scriptStopWait = 500 * time.Millisecond

// ScriptService запускает внешний скрипт отдельным процессом и транслирует
// его объединенный вывод (stdout+stderr) в журнал активности.
// Одновременно работает не больше одного скрипта: запуск нового
// останавливает прежний.
type ScriptService struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}

	activity interfaces.ActivityPort
	logger   interfaces.LoggerPort
}

// NewScriptService создает новый сервис запуска скриптов
func NewScriptService(activity interfaces.ActivityPort, logger interfaces.LoggerPort) *ScriptService {
	return &ScriptService{
		activity: activity,
		logger:   logger,
	}
}

// Run запускает скрипт по указанному пути.
// При debug строки вывода процесса попадают в журнал активности.
func (s *ScriptService) Run(path string, debug bool) error {
	if _, err := os.Stat(path); err != nil {
		s.activity.Publish("Script", "Внешний скрипт не найден: "+path)
		return utils.ErrScriptNotFound
	}

	// запуск нового скрипта подразумевает остановку прежнего
	s.Stop()

	runID := uuid.New().String()
	cmd := exec.Command(path)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		s.activity.Publish("Script", "Ошибка запуска скрипта: "+err.Error())
		return fmt.Errorf("ошибка запуска скрипта %s: %w", path, err)
	}

	done := make(chan struct{})

	s.mu.Lock()
	s.cmd = cmd
	s.done = done
	s.mu.Unlock()

	s.activity.Publish("Script", "Запуск внешнего скрипта: "+filepath.Base(path))
	s.logger.Info("Внешний скрипт запущен",
		interfaces.LogField{Key: "run_id", Value: runID},
		interfaces.LogField{Key: "path", Value: path},
		interfaces.LogField{Key: "pid", Value: cmd.Process.Pid},
	)

	// трансляция вывода процесса в журнал
	go func() {
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			if debug {
				s.activity.Publish("Script", scanner.Text())
			}
		}
	}()

	// ожидание завершения процесса
	go func() {
		err := cmd.Wait()
		pw.Close()

		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		if err != nil && cmd.ProcessState == nil {
			s.activity.Publish("Script", "Ошибка внешнего скрипта: "+err.Error())
		}
		s.activity.Publish("Script", fmt.Sprintf("Внешний скрипт завершился с кодом %d", code))
		s.logger.Info("Внешний скрипт завершен",
			interfaces.LogField{Key: "run_id", Value: runID},
			interfaces.LogField{Key: "exit_code", Value: code},
		)

		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
			s.done = nil
		}
		s.mu.Unlock()

		close(done)
	}()

	return nil
}

// Stop завершает работающий скрипт; для остановленного вызов — no-op
func (s *ScriptService) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	s.cmd = nil
	s.done = nil
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()

	if done != nil {
		select {
		case <-done:
		case <-time.After(scriptStopWait):
		}
	}
}

// Running сообщает, выполняется ли скрипт в данный момент
func (s *ScriptService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

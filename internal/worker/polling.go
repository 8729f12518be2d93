package worker

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-RelayBot/internal/domain"
)

// poll основной цикл опроса
// Обновления обрабатываются строго по одному в порядке поступления
func (r *Relay) poll(run *pollRun) {
	defer r.wg.Done()
	defer close(run.done)

	if !r.awaitPrevious(run) {
		return
	}
	run.prev = nil

	for run.active() {
		updates, err := r.telegram.GetUpdates(r.session.Offset(), r.opts.PollTimeout)
		if !run.active() {
			// Остановлен во время запроса: курсор не двигаем, пакет получим при следующем запуске
			return
		}

		if err != nil {
			r.metrics.IncPollError()
			r.sink.Error("Poll error: %v", fmt.Errorf("%w: %v", ErrTransientPoll, err))
			if !r.wait(run, r.opts.ErrorBackoff) {
				return
			}
			continue
		}

		for _, update := range updates {
			if !run.active() {
				return
			}
			if !r.session.AdvanceOffset(update.UpdateID) {
				continue
			}
			r.handleUpdate(update)
		}

		if !r.wait(run, r.opts.PollDelay) {
			return
		}
	}
}

// awaitPrevious ждёт завершения предыдущего цикла, который мог остаться
// внутри обработчика после остановки; false - цикл нужно завершить
// Остановка не прерывает ожидание: done этого цикла не должен закрыться раньше prev.done
func (r *Relay) awaitPrevious(run *pollRun) bool {
	if run.prev == nil {
		return true
	}

	select {
	case <-run.prev.done:
		return run.active()
	case <-r.ctx.Done():
		return false
	}
}

// handleUpdate учитывает сообщение в сессии и передаёт его обработчику
func (r *Relay) handleUpdate(update tgbotapi.Update) {
	msg := inboundMessage(update)
	if msg == nil {
		return
	}

	r.session.RecordMessage(msg.UserID, r.now())
	r.PublishStatus()
	r.sink.Info("Message from @%s: %s", msg.DisplayName(), msg.Text)

	r.handler.Execute(r.ctx, r.session, msg)
}

// wait пауза, прерываемая остановкой; false - цикл нужно завершить
func (r *Relay) wait(run *pollRun, d time.Duration) bool {
	if d <= 0 {
		return run.active()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-run.stop:
		return false
	case <-r.ctx.Done():
		return false
	}
}

// inboundMessage извлекает сообщение из update; nil для обновлений без сообщения
func inboundMessage(update tgbotapi.Update) *domain.InboundMessage {
	message := update.Message
	if message == nil || message.Chat == nil {
		return nil
	}

	msg := &domain.InboundMessage{
		UpdateID: update.UpdateID,
		ChatID:   message.Chat.ID,
		UserID:   message.Chat.ID,
		Text:     message.Text,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
		msg.Username = message.From.UserName
	}

	return msg
}

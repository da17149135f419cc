package service_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tempizhere/shortlinks/internal/service"
)

// fixedGenerator всегда возвращает один и тот же код
type fixedGenerator string

func (g fixedGenerator) Generate(int) string { return string(g) }

// ExampleService_Create демонстрирует создание короткой ссылки
func ExampleService_Create() {
	svc := service.NewService(nil, nil, service.WithGenerator(fixedGenerator("abc123")))

	link, err := svc.Create("https://example.com/very-long-url")
	if err != nil {
		fmt.Printf("Ошибка создания ссылки: %v\n", err)
		return
	}
	fmt.Println(link.Code, link.OriginalURL)

	_, err = svc.Create("http://evil.com/virus.exe")
	fmt.Println(err, errors.Is(err, service.ErrProhibitedContent))

	_, err = svc.Create("")
	fmt.Println(err, errors.Is(err, service.ErrInvalidURL))

	// Output:
	// abc123 https://example.com/very-long-url
	// url contains prohibited content true
	// url is required true
}

// ExampleService_Resolve демонстрирует учёт переходов по ссылке
func ExampleService_Resolve() {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	svc := service.NewService(nil, nil,
		service.WithClock(clock),
		service.WithGenerator(fixedGenerator("abc123")))

	if _, err := svc.Create("https://example.com"); err != nil {
		return
	}
	clock.Advance(time.Minute)
	svc.Resolve("abc123")
	clock.Advance(time.Minute)
	link, ok := svc.Resolve("abc123")

	fmt.Println(ok, link.ClickCount, link.LastClickedAt.Format(time.RFC3339))

	_, ok = svc.Resolve("zzzzzz")
	fmt.Println(ok)

	// Output:
	// true 2 2024-01-01T10:02:00Z
	// false
}

// ExampleSweeper_Sweep демонстрирует удаление неактивных ссылок
func ExampleSweeper_Sweep() {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	svc := service.NewService(nil, nil, service.WithClock(clock))
	if _, err := svc.Create("https://example.com"); err != nil {
		return
	}

	sweeper := service.NewSweeper(svc, clock, time.Hour, service.DefaultExpiryThreshold, nil)

	clock.Advance(72 * time.Hour)
	fmt.Println("после 72ч:", sweeper.Sweep())

	clock.Advance(time.Millisecond)
	fmt.Println("после 72ч и 1мс:", sweeper.Sweep())

	// Output:
	// после 72ч: 0
	// после 72ч и 1мс: 1
}

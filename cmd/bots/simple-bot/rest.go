package main

import (
	"fmt"

	"github.com/go-resty/resty/v2"

	"quizduel/internal/game/player"
	"quizduel/internal/quiz"
)

type apiError struct {
	Error string `json:"error"`
}

// restClient fala com a API HTTP do servidor.
type restClient struct {
	rest *resty.Client
}

func newRestClient(baseURL string) *restClient {
	return &restClient{rest: resty.New().SetHostURL(baseURL)}
}

func (c *restClient) addPlayer(nickname, connectionID string) (player.View, error) {
	var view player.View
	var apiErr apiError
	resp, err := c.rest.R().
		SetBody(map[string]string{"nickname": nickname, "connectionId": connectionID}).
		SetResult(&view).
		SetError(&apiErr).
		Post("/add_player")
	if err != nil {
		return view, fmt.Errorf("add player: %w", err)
	}
	if resp.IsError() {
		return view, fmt.Errorf("add player: %s: %s", resp.Status(), apiErr.Error)
	}
	return view, nil
}

func (c *restClient) enqueue(nickname string) error {
	var apiErr apiError
	resp, err := c.rest.R().
		SetBody(map[string]string{"nickname": nickname}).
		SetError(&apiErr).
		Post("/add_player_to_waiting_room")
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("enqueue: %s: %s", resp.Status(), apiErr.Error)
	}
	return nil
}

func (c *restClient) questions() ([]quiz.Question, error) {
	var qs []quiz.Question
	resp, err := c.rest.R().SetResult(&qs).Get("/questions")
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("questions: %s", resp.Status())
	}
	return qs, nil
}

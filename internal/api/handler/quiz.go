package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/akehlen/buzzquiz/internal/api/request"
	"github.com/akehlen/buzzquiz/internal/api/response"
	"github.com/akehlen/buzzquiz/internal/model"
	"github.com/akehlen/buzzquiz/internal/services/quiz"
	"github.com/akehlen/buzzquiz/internal/services/scoring"
)

// QuizHandler handles quiz authoring endpoints
type QuizHandler struct {
	quizService *quiz.Service
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *quiz.Service) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// Create handles POST /api/v1/quizzes
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	q, err := h.quizService.CreateQuiz(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.QuizFromModel(q))
}

// List handles GET /api/v1/quizzes
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.quizService.ListQuizzes(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Quiz, len(quizzes))
	for i, q := range quizzes {
		resp[i] = response.QuizFromModel(q)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/quizzes/{quiz_id}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quizID := model.QuizID(mux.Vars(r)["quiz_id"])

	q, err := h.quizService.GetQuiz(r.Context(), quizID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuizFromModel(q))
}

// AddCategory handles POST /api/v1/quizzes/{quiz_id}/categories
func (h *QuizHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	quizID := model.QuizID(mux.Vars(r)["quiz_id"])

	var req request.AddCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	category, err := h.quizService.AddCategory(r.Context(), quizID, req.Name, req.Position, req.Board)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CategoryFromModel(category))
}

// AddQuestion handles POST /api/v1/quizzes/{quiz_id}/questions
func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	var req request.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.CategoryID == "" {
		WriteError(w, NewInvalidRequestError("category_id is required"))
		return
	}
	if req.Text == "" {
		WriteError(w, NewInvalidRequestError("text is required"))
		return
	}
	if req.Answer == "" {
		WriteError(w, NewInvalidRequestError("answer is required"))
		return
	}

	qType := model.QuestionType(req.Type)
	if qType == "" {
		qType = model.QuestionTypeText
	}

	question, err := h.quizService.AddQuestion(r.Context(),
		model.CategoryID(req.CategoryID), req.Points, req.Text, req.Answer, qType, req.ImageRef)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Authoring view always includes the answer
	response.JSON(w, http.StatusCreated, response.QuestionFromModel(question, 1, false, true))
}

// GetBoard handles GET /api/v1/quizzes/{quiz_id}/boards/{board}
// The authoring view shows answers and multiplied point values.
func (h *QuizHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	quizID := model.QuizID(vars["quiz_id"])

	board, err := strconv.Atoi(vars["board"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("board must be a number"))
		return
	}

	columns, err := h.quizService.GetBoard(r.Context(), quizID, board)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.BoardFromColumns(board, columns, scoring.Multiplier(board), nil, true)
	response.JSON(w, http.StatusOK, resp)
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/pedrorichil/aprovaia/internal/models"
)

const (
	classifyTimeout = 30 * time.Second
	generateTimeout = 60 * time.Second
)

// Client wraps the Gemini API for every generative operation the platform
// uses: error classification, essay grading, tutoring, summarization, exam
// structuring and embeddings.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

func NewClient(ctx context.Context, apiKey, model, embeddingModel string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &Client{client: gc, model: model, embeddingModel: embeddingModel}, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string, schema *genai.Schema, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return fmt.Errorf("gemini request: %w", err)
	}
	if err := json.Unmarshal([]byte(result.Text()), out); err != nil {
		return fmt.Errorf("parse gemini response: %w", err)
	}
	return nil
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	return result.Text(), nil
}

// Embed generates the embedding vector for a text, optimized for document
// retrieval.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	result, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: empty result")
	}
	return result.Embeddings[0].Values, nil
}

// Classify analyzes a wrong answer and labels the likely cause of the error.
// It satisfies the adaptive package's Classifier contract.
func (c *Client) Classify(ctx context.Context, question *models.Question, selectedOption string) (*models.ErrorAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	optionsJSON, err := json.Marshal(question.Options)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Você é um tutor especialista em concursos e vestibulares. Sua tarefa é analisar o erro de um aluno.

Contexto da questão:
- Matéria: %s
- Tópico: %s
- Enunciado: %s
- Opções: %s
- Alternativa correta: %s

O aluno marcou a alternativa: %s

Analise o erro mais provável do aluno, focando na natureza do erro.
Responda com "error_type" (uma das categorias permitidas), "brief_explanation"
(no máximo 2 frases, dirigidas ao aluno) e "detailed_feedback" (explicando o
conceito correto e por que a alternativa do aluno está errada).`,
		question.Subject, question.Topic, question.Content, optionsJSON, question.CorrectOption, selectedOption)

	var analysis models.ErrorAnalysis
	if err := c.generateJSON(ctx, prompt, errorAnalysisSchema, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// GradeEssay grades an essay against the five ENEM criteria, scoring each
// from 0 to 200.
func (c *Client) GradeEssay(ctx context.Context, essayText, theme string) (*models.EssayGrade, error) {
	prompt := fmt.Sprintf(`Aja como um corretor de redações do ENEM. Avalie a seguinte redação com o tema "%s".
Forneça um feedback detalhado para cada um dos 5 critérios do ENEM
(Competência 1: Domínio da norma culta; Competência 2: Compreensão do tema e
estrutura; Competência 3: Argumentação; Competência 4: Conhecimento dos
mecanismos linguísticos; Competência 5: Proposta de intervenção).
Dê uma nota de 0 a 200 para cada critério. A nota total deve ser a soma das
notas dos critérios.

Texto da redação:
"""
%s
"""`, theme, essayText)

	var grade models.EssayGrade
	if err := c.generateJSON(ctx, prompt, essayGradeSchema, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

// AskTutor answers a student's question, optionally grounded on a study
// context.
func (c *Client) AskTutor(ctx context.Context, question, studyContext string) (string, error) {
	if studyContext == "" {
		studyContext = "Nenhum"
	}
	prompt := fmt.Sprintf(`Você é um tutor amigável e experiente. Um aluno tem a seguinte dúvida: "%s".
Se houver um contexto de estudo, use-o para basear a sua resposta.
Contexto: """%s""".
Explique o conceito de forma clara e simples, como se estivesse a dar uma aula particular.`, question, studyContext)

	return c.generateText(ctx, prompt)
}

// Summarize condenses a study text into its main bullet points.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Resuma o seguinte texto em 3 a 5 pontos principais (bullet points), focando nas ideias mais importantes para quem está a estudar para uma prova.
Texto: """%s"""`, text)

	return c.generateText(ctx, prompt)
}

// StructureExam reads the raw text of an exam document and extracts its
// questions.
func (c *Client) StructureExam(ctx context.Context, text string) ([]models.QuestionDraft, error) {
	prompt := fmt.Sprintf(`Você é um assistente especialista em processar documentos de provas de concurso.
Analise o texto a seguir, que foi extraído de um PDF de uma prova.
Identifique cada questão individualmente. Para cada questão, extraia a matéria
(subject), um tópico específico (topic), o enunciado completo (content) e as 5
alternativas (options) de A a E.
Ignore cabeçalhos, rodapés, números de página e textos institucionais. Foque
apenas no conteúdo das questões.

Texto da prova:
"""
%s
"""`, text)

	var payload struct {
		Questions []models.QuestionDraft `json:"questions"`
	}
	if err := c.generateJSON(ctx, prompt, examSchema, &payload); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

package responder

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"auto-responder/internal/history"
	"auto-responder/internal/llm"
)

// Sender-type labels. Used for logging and analytics only; a single
// response never branches on them.
const (
	SenderCustomer = "customer"
	SenderFriend   = "friend"
	SenderUnknown  = "unknown"
)

// customerKeywords tag a conversation as a business inquiry when any of
// them appears, case-insensitively, in the classified text.
var customerKeywords = []string{"product", "price", "buy", "sale"}

// promptHistoryDepth is how many trailing history entries are replayed to
// the model.
const promptHistoryDepth = 4

// ProductRenderer supplies the catalog block for the system prompt.
type ProductRenderer interface {
	RenderText() string
}

// Responder builds the instruction block, runs the completion and derives
// the sender-type label from the result.
type Responder struct {
	client  llm.Client
	catalog ProductRenderer

	ownerName string

	// classifyFromRequest switches the keyword classifier input from the
	// generated reply (historical behavior) to the incoming message.
	classifyFromRequest bool
}

func New(client llm.Client, catalog ProductRenderer, ownerName string, classifyFromRequest bool) *Responder {
	return &Responder{
		client:              client,
		catalog:             catalog,
		ownerName:           ownerName,
		classifyFromRequest: classifyFromRequest,
	}
}

// Respond generates a reply for the user message. Every failure of the
// completion service collapses to a fixed fallback greeting with the
// "unknown" sender type; Respond itself never fails.
func (r *Responder) Respond(ctx context.Context, userMessage, userName string, entries []history.Entry) (string, string) {
	messages := []llm.Message{{Role: "system", Content: r.buildInstructions(userName, entries)}}
	for _, e := range history.Tail(entries, promptHistoryDepth) {
		messages = append(messages, llm.Message{Role: e.Role, Content: e.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	resp, err := r.client.Generate(ctx, messages)
	if err != nil {
		log.WithError(err).Error("completion call failed, using fallback reply")
		fallback := fmt.Sprintf("Hi %s! %s is away but I'll let them know you messaged 😊", userName, r.ownerName)
		return fallback, SenderUnknown
	}

	reply := strings.TrimSpace(resp.Content)
	log.WithFields(log.Fields{
		"model":             resp.Model,
		"prompt_tokens":     resp.PromptTokens,
		"completion_tokens": resp.CompletionTokens,
		"total_tokens":      resp.TotalTokens,
	}).Debug("completion finished")

	classified := reply
	if r.classifyFromRequest {
		classified = userMessage
	}
	return reply, Classify(classified)
}

// Classify tags text as a customer inquiry when it mentions any catalog
// keyword, otherwise as a friendly conversation.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range customerKeywords {
		if strings.Contains(lower, kw) {
			return SenderCustomer
		}
	}
	return SenderFriend
}

// buildInstructions formats the system prompt: owner identity, behavior
// rules, the rendered catalog and the recent history tail. The output is
// deterministic for a given catalog and history.
func (r *Responder) buildInstructions(userName string, entries []history.Entry) string {
	recent := "First message"
	if len(entries) > 0 {
		var lines []string
		for _, e := range history.Tail(entries, promptHistoryDepth) {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Role, e.Content))
		}
		recent = strings.Join(lines, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a smart, multilingual AI assistant replying on behalf of %s, who is currently unavailable.\n\n", r.ownerName)
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("- Keep replies SHORT and clear (2-3 sentences max)\n")
	b.WriteString("- Always respond in the user's language (supports English, French, Arabic, and Darija)\n")
	b.WriteString("- Use emojis to keep the tone light and friendly where appropriate\n")
	b.WriteString("- Be creative and vary your responses\n")
	fmt.Fprintf(&b, "- NEVER reveal or mention the AI model you are using. If asked, always reply: \"I'm powered by %s ✨\"\n\n", r.ownerName)
	b.WriteString("CONTEXT ANALYSIS:\n")
	b.WriteString("Analyze the incoming message and recent conversation history to decide:\n")
	fmt.Fprintf(&b, "1. Is this a FRIEND/FAMILY member checking in casually? Let them know %s is away and will reply later, ask if they need help, and keep it relaxed and warm.\n", r.ownerName)
	fmt.Fprintf(&b, "2. Is this a CUSTOMER/BUSINESS inquiry? Be professional but friendly, mention relevant items from the catalog with prices, and suggest contacting %s to complete the order.\n", r.ownerName)
	fmt.Fprintf(&b, "3. Is this a general question? Offer simple help and let them know %s will get back to them soon.\n\n", r.ownerName)
	b.WriteString("PRODUCTS / SERVICES AVAILABLE:\n")
	b.WriteString(r.catalog.RenderText())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Current user: %s\n", userName)
	fmt.Fprintf(&b, "Recent messages:\n%s\n\n", recent)
	b.WriteString("Remember: BE CONCISE, HELPFUL, and MATCH THE USER'S LANGUAGE!")
	return b.String()
}

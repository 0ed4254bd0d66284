// Package chat holds the conversational core: sending a persona-framed
// message list to the completion API and naming conversations.
//
// Respond never propagates upstream failures; it logs them and answers
// with a fixed apology so the exchange still renders. Title synthesis is
// similarly forgiving: when the API is unavailable the conversation
// keeps its derived title and a later exchange may try again.
package chat

package agent

import "fmt"

// sqlPrompt asks the model for exactly one SQLite SELECT answering the
// question against the given schema.
func sqlPrompt(schema, question string) string {
	return fmt.Sprintf(`You are a SQLite expert. Given the schema below, write one SQL query that answers the question.

Rules:
- SQLite syntax only.
- A single SELECT statement (WITH ... SELECT is fine). Never modify data.
- Dates are stored as YYYY-MM-DD text.
- Return ONLY the SQL, no explanations and no markdown.

Schema:
%s

Question: %s

SQL:`, schema, question)
}

// repairPrompt asks the model to fix a query that the database rejected.
func repairPrompt(schema, question, sql, dbErr string) string {
	return fmt.Sprintf(`The SQL query below failed against a SQLite database. Fix it.

Schema:
%s

Question: %s

Failed query:
%s

Database error: %s

Return ONLY the corrected SELECT statement, no explanations and no markdown.

SQL:`, schema, question, sql, dbErr)
}

// answerPrompt asks the model to phrase the query results as a direct answer.
func answerPrompt(question, sql, resultsJSON string) string {
	return fmt.Sprintf(`Answer the question using only the query results below. Be concise and include the relevant numbers. If the results are empty, say that the data shows no matching records.

Question: %s

SQL used:
%s

Results (JSON):
%s

Answer:`, question, sql, resultsJSON)
}

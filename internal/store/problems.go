package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListProblems returns all problems, newest first.
func (p *Postgres) ListProblems(ctx context.Context) ([]Problem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, description, difficulty, starter_code, created_at
		FROM problems
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Problem{}
	for rows.Next() {
		var pr Problem
		if err := rows.Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Difficulty, &pr.StarterCode, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// GetProblem fetches a problem by ID.
func (p *Postgres) GetProblem(ctx context.Context, id string) (Problem, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, title, description, difficulty, starter_code, created_at
		FROM problems
		WHERE id = $1
	`, id)

	var pr Problem
	if err := row.Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Difficulty, &pr.StarterCode, &pr.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Problem{}, ErrNotFound
		}
		return Problem{}, err
	}
	return pr, nil
}

// CreateProblem inserts a new problem (admin / seeding).
func (p *Postgres) CreateProblem(ctx context.Context, title, description, difficulty string, starterCode *string) (Problem, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO problems (id, title, description, difficulty, starter_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, difficulty, starter_code, created_at
	`, uuid.NewString(), title, description, difficulty, starterCode)

	var pr Problem
	if err := row.Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Difficulty, &pr.StarterCode, &pr.CreatedAt); err != nil {
		return Problem{}, err
	}
	return pr, nil
}

// SeedProblems inserts the demo problem set and returns it.
func (p *Postgres) SeedProblems(ctx context.Context) ([]Problem, error) {
	out := make([]Problem, 0, len(sampleProblems))
	for _, s := range sampleProblems {
		code := s.starterCode
		pr, err := p.CreateProblem(ctx, s.title, s.description, s.difficulty, &code)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	p.log.Info("problems.seeded", "count", len(out))
	return out, nil
}

var sampleProblems = []struct {
	title, description, difficulty, starterCode string
}{
	{
		title:       "Two Sum",
		description: "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.",
		difficulty:  "EASY",
		starterCode: "function twoSum(nums, target) {\n  // Your code here\n  \n}\n\n// Test cases\nconsole.log(twoSum([2, 7, 11, 15], 9)); // Expected: [0, 1]",
	},
	{
		title:       "Reverse Linked List",
		description: "Given the head of a singly linked list, reverse the list, and return the reversed list.",
		difficulty:  "MEDIUM",
		starterCode: "class ListNode {\n  constructor(val, next = null) {\n    this.val = val;\n    this.next = next;\n  }\n}\n\nfunction reverseList(head) {\n  // Your code here\n  \n}\n\n// Test cases\nconst list = new ListNode(1, new ListNode(2, new ListNode(3)));\nconsole.log(reverseList(list));",
	},
	{
		title:       "Binary Tree Maximum Path Sum",
		description: "A path in a binary tree is a sequence of nodes where each pair of adjacent nodes in the sequence has an edge connecting them. Find the maximum path sum of any non-empty path.",
		difficulty:  "HARD",
		starterCode: "class TreeNode {\n  constructor(val, left = null, right = null) {\n    this.val = val;\n    this.left = left;\n    this.right = right;\n  }\n}\n\nfunction maxPathSum(root) {\n  // Your code here\n  \n}\n\n// Test cases\nconst tree = new TreeNode(1, new TreeNode(2), new TreeNode(3));\nconsole.log(maxPathSum(tree)); // Expected: 6",
	},
	{
		title:       "Implement a LRU Cache",
		description: "Design a data structure that follows the constraints of a Least Recently Used (LRU) cache with get and put operations in O(1) time complexity.",
		difficulty:  "MEDIUM",
		starterCode: "class LRUCache {\n  constructor(capacity) {\n    this.capacity = capacity;\n    // Your implementation\n  }\n\n  get(key) {\n    // Your code here\n  }\n\n  put(key, value) {\n    // Your code here\n  }\n}\n\n// Test cases\nconst cache = new LRUCache(2);\ncache.put(1, 1);\ncache.put(2, 2);\nconsole.log(cache.get(1)); // Expected: 1",
	},
	{
		title:       "Valid Parentheses",
		description: "Given a string containing just the characters '(', ')', '{', '}', '[' and ']', determine if the input string is valid.",
		difficulty:  "EASY",
		starterCode: "function isValid(s) {\n  // Your code here\n  \n}\n\n// Test cases\nconsole.log(isValid(\"()\")); // Expected: true\nconsole.log(isValid(\"()[]{}\")); // Expected: true\nconsole.log(isValid(\"(]\")); // Expected: false",
	},
}

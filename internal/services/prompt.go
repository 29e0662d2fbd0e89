package services

import "fmt"

// manualPrompt builds the generation prompt for a video in the requested
// language. Unknown languages fall back to English.
func manualPrompt(title, language string) string {
	if language == "ja" {
		return fmt.Sprintf(`この動画を分析して、ユーザーが実行すべき具体的な操作手順を日本語で作成してください。

タイトル: %s

以下の形式で操作手順のみを作成してください：

## 操作手順

### ステップ1: [操作を表すシンプルなタイトル]
- **操作手順**: ユーザーが実行すべき具体的なアクション
- **時間**: 動画上の時間（例：0:15, 1:30など）

### ステップ2: [操作を表すシンプルなタイトル]
- **操作手順**: ユーザーが実行すべき具体的なアクション
- **時間**: 動画上の時間（例：0:15, 1:30など）

（同様の形式で全ての操作手順を続ける）

重要な指示：
- 各ステップは「ログイン」「メニュー選択」「データ入力」のようなシンプルなタイトルにしてください
- 操作手順は「〇〇をクリックしてください」「〇〇に移動してください」など、具体的な行動を記述してください
- 時間は動画上のタイムスタンプを正確に記録してください
- 動画で行われている操作を順番通りに、漏れなく記録してください
- 操作手順と時間の2項目のみを含めてください
`, title)
	}

	return fmt.Sprintf(`Analyze this video and create specific operational instructions that users should follow in English.

Title: %s

Please create only the procedure section in the following format:

## Procedure

### Step 1: [Specific action title]
- **Action**: "Click on the button", "Navigate to the page", etc. - specific actions users should perform
- **Screen**: Which screen or page to operate on
- **Notes**: Important points to consider during operation
- **Verification**: How to confirm correct execution

### Step 2: [Specific action title]
- **Action**: "Click on the button", "Navigate to the page", etc. - specific actions users should perform
- **Screen**: Which screen or page to operate on
- **Notes**: Important points to consider during operation
- **Verification**: How to confirm correct execution

(Continue in similar format for all operation steps)

Important instructions:
- Each step title and action should indicate specific actions users should perform, like "Navigate to the branch", "Click the login button"
- Provide clear instructions for actual operations, not just descriptions
- Record all operations shown in the video in the correct sequence
- Do not include overview, prerequisites, troubleshooting, or additional information
`, title)
}

// Supported enhancement types.
const (
	EnhanceImprove   = "improve"
	EnhanceTranslate = "translate"
	EnhanceSummarize = "summarize"
)

// enhancePrompt builds the prompt for reworking existing manual content.
// Unknown types return a validation error.
func enhancePrompt(content, enhancementType string) (string, error) {
	switch enhancementType {
	case EnhanceImprove:
		return fmt.Sprintf(`以下のマニュアル内容をより分かりやすく、詳細に改善してください：

%s

改善点：
- より詳細な手順説明
- 分かりやすい表現
- 重要なポイントの強調
- エラー対処法の追加
`, content), nil
	case EnhanceTranslate:
		return fmt.Sprintf(`以下の日本語マニュアルを英語に翻訳してください：

%s
`, content), nil
	case EnhanceSummarize:
		return fmt.Sprintf(`以下のマニュアル内容を要約して、重要なポイントのみを抽出してください：

%s
`, content), nil
	default:
		return "", validationErrorf("unknown enhancement type: %s", enhancementType)
	}
}

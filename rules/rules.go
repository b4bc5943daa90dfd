// Package rules holds the fixed translation dictionaries for the catalog
// document: the heading map (exact full-line match), the category map
// (shared by the table-of-contents and category-summary paths, so both
// occurrences of a category always get the identical label), and the ordered
// paragraph pattern list.
//
// Paragraph patterns are evaluated strictly in order and the first match
// wins; several patterns could overlap, so the order is part of the
// contract. Templates use ${n} references that are expanded with the
// captured groups, which keeps dynamic content (counts, totals) byte-exact
// while the surrounding prose is replaced.
package rules

import (
	"fmt"
	"regexp"
)

// Paragraph pairs a line pattern with its replacement template.
type Paragraph struct {
	// Pattern must match at the start of the line to apply.
	Pattern *regexp.Regexp
	// Template is the replacement, with ${n} group references.
	Template string
}

// Set bundles all dictionaries used by the transformer.
type Set struct {
	// Headings maps an exact source heading line to its translation.
	Headings map[string]string
	// Categories maps a category name to its translated label.
	Categories map[string]string
	// Paragraphs is the ordered pattern list (first match wins).
	Paragraphs []Paragraph
}

// Heading looks up an exact heading line.
func (s *Set) Heading(line string) (string, bool) {
	t, ok := s.Headings[line]
	return t, ok
}

// Category translates a category name, defaulting to the original when no
// entry exists.
func (s *Set) Category(name string) string {
	if t, ok := s.Categories[name]; ok {
		return t
	}
	return name
}

// ExpandParagraph applies the first paragraph pattern matching at the start
// of line and returns the expanded template. Returns ("", false) when no
// pattern applies.
func (s *Set) ExpandParagraph(line string) (string, bool) {
	for _, p := range s.Paragraphs {
		loc := p.Pattern.FindStringSubmatchIndex(line)
		if loc == nil || loc[0] != 0 {
			continue
		}
		return string(p.Pattern.ExpandString(nil, p.Template, line, loc)), true
	}
	return "", false
}

// MergeHeadings overlays custom heading translations on top of the set.
func (s *Set) MergeHeadings(m map[string]string) {
	for k, v := range m {
		s.Headings[k] = v
	}
}

// MergeCategories overlays custom category translations on top of the set.
func (s *Set) MergeCategories(m map[string]string) {
	for k, v := range m {
		s.Categories[k] = v
	}
}

// PrependParagraphs compiles custom pattern/template pairs and puts them
// ahead of the built-in list so they take priority.
func (s *Set) PrependParagraphs(pairs [][2]string) error {
	var custom []Paragraph
	for _, pr := range pairs {
		re, err := regexp.Compile(pr[0])
		if err != nil {
			return fmt.Errorf("compiling paragraph pattern %q: %w", pr[0], err)
		}
		custom = append(custom, Paragraph{Pattern: re, Template: pr[1]})
	}
	s.Paragraphs = append(custom, s.Paragraphs...)
	return nil
}

// Defaults returns the built-in dictionaries for the catalog README.
func Defaults() *Set {
	return &Set{
		Headings:   defaultHeadings(),
		Categories: defaultCategories(),
		Paragraphs: defaultParagraphs(),
	}
}

func defaultHeadings() map[string]string {
	return map[string]string{
		"# Awesome OpenClaw Skills":  "# Awesome OpenClaw 技能合集",
		"## Installation":            "## 安装",
		"## Why This List Exists?":   "## 为什么有这个列表？",
		"## Table of Contents":       "## 目录",
		"## 🤝 Contributing":          "## 🤝 贡献",
		"## License":                 "## 许可证",
		"### ClawHub CLI":            "### ClawHub CLI",
		"### Manual Installation":    "### 手动安装",
		"### Alternative":            "### 其他方式",
	}
}

func defaultCategories() map[string]string {
	return map[string]string{
		"Coding Agents & IDEs":       "编码代理与 IDE",
		"Git & GitHub":               "Git 与 GitHub",
		"Moltbook":                   "Moltbook",
		"Web & Frontend Development": "Web 与前端开发",
		"DevOps & Cloud":             "DevOps 与云服务",
		"Browser & Automation":       "浏览器与自动化",
		"Image & Video Generation":   "图像与视频生成",
		"Apple Apps & Services":      "Apple 应用与服务",
		"Search & Research":          "搜索与研究",
		"Clawdbot Tools":             "Clawdbot 工具",
		"CLI Utilities":              "CLI 工具",
		"Marketing & Sales":          "市场营销与销售",
		"Productivity & Tasks":       "生产力与任务管理",
		"AI & LLMs":                  "AI 与大语言模型",
		"Data & Analytics":           "数据与分析",
		"Finance":                    "金融",
		"Media & Streaming":          "媒体与流媒体",
		"Notes & PKM":                "笔记与个人知识管理",
		"iOS & macOS Development":    "iOS 与 macOS 开发",
		"Transportation":             "交通出行",
		"Personal Development":       "个人发展",
		"Health & Fitness":           "健康与健身",
		"Communication":              "通讯",
		"Speech & Transcription":     "语音与转录",
		"Smart Home & IoT":           "智能家居与物联网",
		"Shopping & E-commerce":      "购物与电子商务",
		"Calendar & Scheduling":      "日历与日程管理",
		"PDF & Documents":            "PDF 与文档",
		"Self-Hosted & Automation":   "自托管与自动化",
		"Security & Passwords":       "安全与密码",
		"Gaming":                     "游戏",
		"Agent-to-Agent Protocols":   "代理间协议",
	}
}

func defaultParagraphs() []Paragraph {
	return []Paragraph{
		// "Discover N community-built OpenClaw skills …" (hero line)
		{
			regexp.MustCompile(`^(\s*<strong>)Discover (\d[\d,]*) community-built OpenClaw skills, organized by category\.`),
			"${1}发现 ${2} 个社区构建的 OpenClaw 技能，按分类整理。",
		},
		// Main intro paragraph
		{
			regexp.MustCompile(`^OpenClaw \(previously known as Moltbot, originally Clawdbot\.\.\. identity crisis included, no extra charge\) is a locally-running AI assistant that operates directly on your machine\. Skills extend its capabilities, allowing it to interact with external services, automate workflows, and perform specialized tasks\. This collection helps you discover and install the right skills for your needs\.$`),
			"OpenClaw（曾用名 Moltbot，最初叫 Clawdbot……改名危机不另收费）是一个在本地运行的 AI 助手，直接在你的机器上工作。技能扩展了它的能力，让它能与外部服务交互、自动化工作流并执行专业任务。本合集帮助你发现并安装合适的技能。",
		},
		// "Skills in this list are sourced from ClawHub …"
		{
			regexp.MustCompile(`^Skills in this list are sourced from \[ClawHub\]\(https://www\.clawhub\.ai/\) \(OpenClaw's public skills registry\) and categorized for easier discovery\.$`),
			"本列表中的技能来源于 [ClawHub](https://www.clawhub.ai/)（OpenClaw 的公共技能注册中心），并按分类整理以方便发现。",
		},
		// "These skills follow the Agent Skill convention …"
		{
			regexp.MustCompile(`^These skills follow the Agent Skill convention develop by Anthropic, an open standard for AI coding assistants\.$`),
			"这些技能遵循 Anthropic 开发的 Agent Skill 规范，这是一个面向 AI 编程助手的开放标准。",
		},
		// "Want to add a skill?" blockquote
		{
			regexp.MustCompile(`^> \*\*Want to add a skill\?\*\* This list only includes skills that are \*\*already published\*\* in the "github\.com/openclaw/skills"\. We do not accept links to personal repos, gists, or any other external source\. If your skill isn't in the OpenClaw skills repo yet, publish it there first\. See \[CONTRIBUTING\.md\]\(CONTRIBUTING\.md\) for details\.$`),
			`> **想添加技能？** 本列表仅收录**已发布**在 "github.com/openclaw/skills" 中的技能。我们不接受个人仓库、gist 或其他外部来源的链接。如果你的技能尚未发布到 OpenClaw 技能仓库，请先在那里发布。详见 [CONTRIBUTING.md](CONTRIBUTING.md)。`,
		},
		// ClawHub CLI renaming note
		{
			regexp.MustCompile(`^> \*\*Note:\*\* As you probably know, they keep renaming things\. This reflects the current official docs\. We'll update this when they rename it again\.$`),
			"> **注意：** 你可能知道，他们一直在改名。这里反映的是当前的官方文档，下次改名时我们会再更新。",
		},
		// "Copy the skill folder to one of these locations:"
		{
			regexp.MustCompile(`^Copy the skill folder to one of these locations:$`),
			"将技能文件夹复制到以下位置之一：",
		},
		// Manual install table header
		{
			regexp.MustCompile(`^\| Location \| Path \|$`),
			"| 位置 | 路径 |",
		},
		// "Priority: Workspace > Local > Bundled"
		{
			regexp.MustCompile(`^Priority: Workspace > Local > Bundled$`),
			"优先级：工作区 > 本地 > 内置",
		},
		// Alternative install paragraph
		{
			regexp.MustCompile(`^You can also paste the skill's GitHub repository link directly into your assistant's chat and ask it to use it\. The assistant will handle the setup automatically in the background\.$`),
			"你也可以将技能的 GitHub 仓库链接直接粘贴到助手的聊天中，让它使用该技能。助手会在后台自动完成设置。",
		},
		// "Why This List Exists" intro with dynamic totals
		{
			regexp.MustCompile(`^OpenClaw's public registry \(ClawHub\) hosts \*\*(\d[\d,]*) community-built skills\*\* as of .+\. This awesome list has \*\*(\d[\d,]*) skills\*\*\. Here's what we filtered out:$`),
			"OpenClaw 的公共注册中心（ClawHub）拥有 **${1} 个社区构建的技能**。本列表收录了 **${2} 个技能**。以下是我们筛除的内容：",
		},
		// Filter table header
		{
			regexp.MustCompile(`^\| Filter \| Excluded \|$`),
			"| 筛选条件 | 排除数量 |",
		},
		// Filter table rows
		{
			regexp.MustCompile(`^\| Possibly spam — bulk accounts, bot accounts, test/junk \| ([\d,]+) \|$`),
			"| 疑似垃圾信息 — 批量账号、机器人账号、测试/垃圾内容 | ${1} |",
		},
		{
			regexp.MustCompile(`^\| Crypto / Blockchain / Finance / Trade \| ([\d,]+) \|$`),
			"| 加密货币 / 区块链 / 金融 / 交易 | ${1} |",
		},
		{
			regexp.MustCompile(`^\| Duplicate / Similar name \| ([\d,]+) \|$`),
			"| 重复 / 相似名称 | ${1} |",
		},
		{
			regexp.MustCompile(`^\| Malicious — identified by security audits published by researchers \(excluding VirusTotal\) \| ([\d,]+) \|$`),
			"| 恶意内容 — 由研究人员发布的安全审计识别（不含 VirusTotal） | ${1} |",
		},
		{
			regexp.MustCompile(`^\| Non-English — descriptions not in English \| ([\d,]+) \|$`),
			"| 非英语 — 描述不是英文 | ${1} |",
		},
		{
			regexp.MustCompile(`^\| \*\*Total not taken from OpenClaw's official skill registry\*\* \| \*\*([\d,]+)\*\* \|$`),
			"| **未从 OpenClaw 官方技能注册中心收录的总数** | **${1}** |",
		},
		// Disclaimer blockquote
		{
			regexp.MustCompile(`^> \*\*Disclaimer:\*\* Inclusion in this list does \*\*not\*\* guarantee a skill is safe or trustworthy\. OpenClaw now has a VirusTotal partnership that provides security scanning for skills\. Before installing a skill, visit its page on ClawHub and check the VirusTotal report to see if it's flagged as risky\. We also recommend reviewing a skill's source code before installing and using tools like Claude Code or Codex to inspect it for potentially harmful behavior\.$`),
			"> **免责声明：** 收录在本列表中**不代表**该技能是安全或可信的。OpenClaw 现已与 VirusTotal 合作，为技能提供安全扫描。安装技能前，请访问其 ClawHub 页面并查看 VirusTotal 报告，确认是否被标记为有风险。我们还建议在安装前审查技能的源代码，并使用 Claude Code 或 Codex 等工具检查是否存在潜在有害行为。",
		},
		// "If you think a skill was incorrectly excluded …"
		{
			regexp.MustCompile(`^If you think a skill was incorrectly excluded or miscategorized, feel free to open an issue or PR\. We may have made mistakes\.$`),
			"如果你认为某个技能被错误排除或分类有误，请随时提交 issue 或 PR。我们可能犯了错误。",
		},
		// Contributing section
		{
			regexp.MustCompile(`^We welcome contributions! See \[CONTRIBUTING\.md\]\(CONTRIBUTING\.md\) for detailed guidelines\.$`),
			"欢迎贡献！详细指南请参见 [CONTRIBUTING.md](CONTRIBUTING.md)。",
		},
		{
			regexp.MustCompile(`^- Submit new skills via PR$`),
			"- 通过 PR 提交新技能",
		},
		{
			regexp.MustCompile(`^- Improve existing definitions$`),
			"- 改进现有定义",
		},
		// Contributing note
		{
			regexp.MustCompile(`^> \*\*Note:\*\* Please don't submit skills you created 3 hours ago\. We're now focusing on community-adopted skills, especially those published by development teams and proven in real-world usage\. Quality over quantity\.$`),
			"> **注意：** 请不要提交你 3 小时前刚创建的技能。我们现在专注于社区采用的技能，特别是由开发团队发布并在实际使用中经过验证的技能。质量优于数量。",
		},
		// License section
		{
			regexp.MustCompile(`^MIT License - see \[LICENSE\]\(LICENSE\)$`),
			"MIT 许可证 - 见 [LICENSE](LICENSE)",
		},
		{
			regexp.MustCompile(`^Skills in this list are sourced from the OpenClaw official skills repo and categorized for easier discovery\. Skills listed here are created and maintained by their respective authors, not by us\. We do not audit, endorse, or guarantee the security or correctness of listed projects\. They are not security-audited and should be reviewed before production use\.$`),
			"本列表中的技能来源于 OpenClaw 官方技能仓库，按分类整理以方便发现。列出的技能由各自的作者创建和维护，并非我们所有。我们不审核、不背书、也不保证所列项目的安全性或正确性。它们未经安全审计，生产环境使用前请自行审查。",
		},
		{
			regexp.MustCompile(`^If you find an issue with a listed skill or want your skill removed, please open an issue and we'll take care of it promptly\.$`),
			"如果你发现列出的技能有问题，或者想要移除你的技能，请提交 issue，我们会及时处理。",
		},
	}
}
